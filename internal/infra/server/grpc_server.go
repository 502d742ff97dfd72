package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/grpc/middleware"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/ratelimit"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName: имя сервиса в grpc.health.v1.
const ServiceName = "todo.v1.TodoService"

type GRPCConfig struct {
	Address  string
	CertFile string
	KeyFile  string
}

// GRPCServer: служебный gRPC (health + reflection) рядом с REST.
type GRPCServer struct {
	cfg    GRPCConfig
	srv    *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewGRPCServer(cfg GRPCConfig, limiter *ratelimit.PerKey, metrics *grpc_prometheus.ServerMetrics, logger *zap.Logger) (*GRPCServer, error) {
	opts := []grpc.ServerOption{
		grpc.UnaryInterceptor(middleware.ChainUnaryServer(logger, limiter, metrics)),
		grpc.StreamInterceptor(middleware.ChainStreamServer(logger, metrics)),
	}
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(creds))
	}

	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	if metrics != nil {
		metrics.InitializeMetrics(srv)
	}

	s := &GRPCServer{cfg: cfg, srv: srv, health: hs, log: logger}
	s.SetServing(true)
	return s, nil
}

// SetServing переключает статус и общего (""), и именованного сервиса.
func (s *GRPCServer) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_SERVING
	if !ok {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Run слушает cfg.Address до отмены ctx.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	s.log.Info("ctx cancelled, stopping gRPC server")
	s.health.Shutdown()

	// graceful stop с 5-секундным таймаутом
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-stopCtx.Done():
		s.srv.Stop()
	case <-done:
	}
	s.log.Info("gRPC server stopped")
	return nil
}

// WatchHealth раз в interval прогоняет check и выставляет статус health-сервиса.
func (s *GRPCServer) WatchHealth(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cctx, cancel := context.WithTimeout(ctx, interval)
		err := check(cctx)
		cancel()

		if ok := err == nil; ok != serving {
			serving = ok
			s.SetServing(ok)
			if ok {
				s.log.Info("dependencies recovered")
			} else {
				s.log.Warn("dependency check failed", zap.Error(err))
			}
		}
	}
}
