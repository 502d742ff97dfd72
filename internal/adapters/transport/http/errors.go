package http

import (
	"net/http"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/gin-gonic/gin"
)

// writeError: единственное место, где доменные ошибки превращаются в HTTP-коды.
// Причины отказа в авторизации наружу не различаются.
func writeError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case customErrors.IsAlreadyExists(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "already exists"})
	case customErrors.IsInvalidCredentials(err):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case customErrors.IsUnauthorized(err):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case customErrors.IsForbidden(err):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case customErrors.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
