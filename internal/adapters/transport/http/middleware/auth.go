package middleware

import (
	"errors"
	"net/http"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/guard"
	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// RequireRole пропускает запрос дальше только с действующим токеном нужной роли.
// Любой отказ отдаётся одинаковым 401.
func RequireRole(g *guard.Guard, role model.Role, m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := g.Authorize(c.Request.Context(), c.GetHeader("Authorization"), role)
		if err != nil {
			var rej *guard.RejectedError
			if errors.As(err, &rej) {
				m.Rejected(role.String(), rej.Reached.String())
			}
			if customErrors.IsUnauthorized(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom достаёт проверенного субъекта, положенного RequireRole.
func PrincipalFrom(c *gin.Context) (model.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
