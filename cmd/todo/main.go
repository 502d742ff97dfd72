package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	myPostgresRepo "github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/db/redis"
	myHttp "github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http"
	httpmw "github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/ratelimit"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/guard"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/password"
	authsvc "github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/verifier"
	principalsvc "github.com/Miraines/MoonyAndStarry/todo-service/internal/app/principal/service"
	todosvc "github.com/Miraines/MoonyAndStarry/todo-service/internal/app/todo/service"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/todo-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/infra/server"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// .env необязателен, в контейнере всё приходит через окружение
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// логгер ещё не знает уровня
		lg.Must("dev", "").Fatal("failed to load config", zap.Error(err))
	}

	zapLog := lg.Must(cfg.Env, cfg.LogLevel)
	defer zapLog.Sync()

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	var (
		tokenRepo repo.TokenRepo
		redisRepo *myRedisRepo.RedisTokenRepo
	)
	if cfg.RefreshRotation() {
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()
		redisRepo = myRedisRepo.NewRedisTokenRepo(redisCli)
		tokenRepo = redisRepo
		zapLog.Info("refresh token rotation enabled", zap.String("redis", cfg.RedisAddress))
	} else {
		zapLog.Warn("REDIS_ADDRESS is empty, refresh tokens are stateless")
	}

	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	guestRepo := myPostgresRepo.NewPostgresGuestRepo(db)
	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	adminRepo := myPostgresRepo.NewPostgresAdminRepo(db)
	todoRepo := myPostgresRepo.NewPostgresTodoRepo(db)

	v := verifier.New(jwtUtil, map[model.Role]repo.PrincipalRepo{
		model.RoleGuest: guestRepo,
		model.RoleUser:  userRepo,
		model.RoleAdmin: adminRepo,
	})
	validate := validator.New()

	authService := authsvc.New(authsvc.Deps{
		Guests: guestRepo,
		Accounts: map[model.Role]repo.AccountRepo{
			model.RoleUser:  userRepo,
			model.RoleAdmin: adminRepo,
		},
		Tokens:   tokenRepo,
		JWT:      jwtUtil,
		Verifier: v,
		Hasher:   password.NewArgon2Hasher(password.DefaultParams, cfg.PasswordPepper),
		Validate: validate,
		Log:      zapLog,
	})
	todoService := todosvc.New(todoRepo, userRepo, validate, zapLog)
	principalService := principalsvc.New(userRepo, guestRepo, validate, zapLog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	grpcMetrics := grpc_prometheus.NewServerMetrics()
	grpcMetrics.EnableHandlingTimeHistogram()
	reg.MustRegister(grpcMetrics)

	ping := func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
		if redisRepo != nil {
			return redisRepo.Ping(ctx)
		}
		return nil
	}

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateBurst, 10_000, time.Hour)
	router := myHttp.NewRouter(myHttp.RouterConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowCredentials,
	}, myHttp.RouterDeps{
		Handler:  myHttp.NewHandler(authService, todoService, principalService, zapLog),
		Guard:    guard.New(v, zapLog),
		Limiter:  limiter,
		Metrics:  httpmw.NewMetrics(reg),
		Gatherer: reg,
		Health:   ping,
		Log:      zapLog,
	})

	tlsCert, tlsKey := "", ""
	if cfg.TLSEnabled() {
		tlsCert, tlsKey = cfg.HTTPSCertFile, cfg.HTTPSKeyFile
	}
	grpcServer, err := server.NewGRPCServer(server.GRPCConfig{
		Address:  cfg.GRPCAddress,
		CertFile: tlsCert,
		KeyFile:  tlsKey,
	}, limiter, grpcMetrics, zapLog)
	if err != nil {
		zapLog.Fatal("failed to init gRPC server", zap.Error(err))
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		limiter.Run(ctx)
		return nil
	})
	g.Go(func() error {
		grpcServer.WatchHealth(ctx, 10*time.Second, ping)
		return nil
	})
	g.Go(func() error {
		return grpcServer.Run(ctx)
	})
	g.Go(func() error {
		return server.RunHTTP(ctx, server.HTTPConfig{
			Address:  cfg.HTTPAddress,
			CertFile: tlsCert,
			KeyFile:  tlsKey,
		}, router, zapLog)
	})

	<-ctx.Done()
	zapLog.Info("shutdown signal received")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		zapLog.Error("server terminated", zap.Error(err))
		os.Exit(1)
	}
}
