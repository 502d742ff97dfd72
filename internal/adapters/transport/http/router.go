package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/ratelimit"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/guard"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

type RouterDeps struct {
	Handler *Handler
	Guard   *guard.Guard
	Limiter *ratelimit.PerKey
	Metrics *middleware.Metrics
	// Gatherer nil: /metrics не регистрируется
	Gatherer prometheus.Gatherer
	Health   func(ctx context.Context) error
	Log      *zap.Logger
}

func NewRouter(cfg RouterConfig, d RouterDeps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	if d.Metrics != nil {
		router.Use(d.Metrics.Handler())
	}
	if d.Limiter != nil {
		router.Use(middleware.RateLimitPerIP(d.Limiter))
	}
	router.Use(cors.New(corsConfig(cfg)))

	h := d.Handler
	router.GET("/health", h.Health(func(c *gin.Context) error {
		if d.Health == nil {
			return nil
		}
		return d.Health(c.Request.Context())
	}))
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := router.Group("/auth")
	{
		auth.POST("/guest/join", h.JoinGuest)
		auth.POST("/guest/refresh", h.Refresh(model.RoleGuest))

		auth.POST("/user/join", h.Join(model.RoleUser))
		auth.POST("/user/login", h.Login(model.RoleUser))
		auth.POST("/user/refresh", h.Refresh(model.RoleUser))

		auth.POST("/admin/join", h.Join(model.RoleAdmin))
		auth.POST("/admin/login", h.Login(model.RoleAdmin))
		auth.POST("/admin/refresh", h.Refresh(model.RoleAdmin))
	}

	user := router.Group("/todoList/user", middleware.RequireRole(d.Guard, model.RoleUser, d.Metrics))
	{
		user.POST("/todos", h.CreateTodo)
		user.PATCH("/todos", h.SearchTodos)
		user.GET("/todos/:todoId", h.GetTodo)
		user.PUT("/todos/:todoId", h.UpdateTodo)
		user.DELETE("/todos/:todoId", h.DeleteTodo)

		user.GET("/users/:userId", h.GetUser)
		user.PUT("/users/:userId", h.UpdateUser)
		user.PATCH("/users/:userId/todos", h.SearchOwnerTodos)
		user.GET("/users/:userId/todos/:todoId", h.GetTodo)
		user.PUT("/users/:userId/todos/:todoId", h.UpdateTodo)
		user.DELETE("/users/:userId/todos/:todoId", h.DeleteTodo)
	}

	admin := router.Group("/todoList/admin", middleware.RequireRole(d.Guard, model.RoleAdmin, d.Metrics))
	{
		admin.PATCH("/users", h.SearchUsers)
		admin.GET("/users/:userId", h.GetUser)
		admin.PUT("/users/:userId", h.UpdateUser)
		admin.DELETE("/users/:userId", h.DeleteUser)
		admin.PATCH("/users/:userId/todos", h.SearchOwnerTodos)
		admin.GET("/users/:userId/todos/:todoId", h.GetTodo)
		admin.PUT("/users/:userId/todos/:todoId", h.UpdateTodo)
		admin.DELETE("/users/:userId/todos/:todoId", h.DeleteTodo)

		admin.GET("/todos/:todoId", h.GetTodo)
		admin.PUT("/todos/:todoId", h.UpdateTodo)
		admin.DELETE("/todos/:todoId", h.DeleteTodo)

		admin.PATCH("/guests", h.SearchGuests)
		admin.GET("/guests/:guestId", h.GetGuest)
		admin.PUT("/guests/:guestId", h.UpdateGuest)
		admin.DELETE("/guests/:guestId", h.DeleteGuest)
	}

	return router
}

func corsConfig(cfg RouterConfig) cors.Config {
	c := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	// без списка источников cors.New паникует
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}
