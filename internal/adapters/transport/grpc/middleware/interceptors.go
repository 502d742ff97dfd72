package middleware

import (
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/ratelimit"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func RecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandler(recoverFunc(logger)))
}

func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return grpc_zap.UnaryServerInterceptor(logger)
}

// ChainUnaryServer: recovery -> logging -> metrics -> rate limit.
// metrics == nil: метрики не собираются.
func ChainUnaryServer(logger *zap.Logger, limiter *ratelimit.PerKey, metrics *grpc_prometheus.ServerMetrics) grpc.UnaryServerInterceptor {
	chain := []grpc.UnaryServerInterceptor{
		RecoveryInterceptor(logger),
		LoggingInterceptor(logger),
	}
	if metrics != nil {
		chain = append(chain, metrics.UnaryServerInterceptor())
	}
	if limiter != nil {
		chain = append(chain, NewRateLimitPerIP(limiter))
	}
	return grpc_middleware.ChainUnaryServer(chain...)
}

// ChainStreamServer нужен для Health.Watch.
func ChainStreamServer(logger *zap.Logger, metrics *grpc_prometheus.ServerMetrics) grpc.StreamServerInterceptor {
	chain := []grpc.StreamServerInterceptor{
		grpc_recovery.StreamServerInterceptor(grpc_recovery.WithRecoveryHandler(recoverFunc(logger))),
		grpc_zap.StreamServerInterceptor(logger),
	}
	if metrics != nil {
		chain = append(chain, metrics.StreamServerInterceptor())
	}
	return grpc_middleware.ChainStreamServer(chain...)
}

func recoverFunc(logger *zap.Logger) grpc_recovery.RecoveryHandlerFunc {
	return func(p any) error {
		logger.Error("grpc handler panic", zap.Any("panic", p))
		return status.Error(codes.Internal, "internal error")
	}
}
