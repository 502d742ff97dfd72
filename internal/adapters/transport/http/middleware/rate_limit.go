package middleware

import (
	"net/http"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimitPerIP ограничивает RPS для Gin-ручек по IP клиента.
func RateLimitPerIP(l *ratelimit.PerKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
