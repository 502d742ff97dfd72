package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/middleware"
	authsvc "github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/service"
	principalsvc "github.com/Miraines/MoonyAndStarry/todo-service/internal/app/principal/service"
	todosvc "github.com/Miraines/MoonyAndStarry/todo-service/internal/app/todo/service"
	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	auth       authsvc.Service
	todos      todosvc.Service
	principals principalsvc.Service
	log        *zap.Logger
}

func NewHandler(a authsvc.Service, t todosvc.Service, p principalsvc.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: a, todos: t, principals: p, log: log}
}

// bindJSON требует тело запроса.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, customErrors.NewInvalidArgument("malformed body"))
		return false
	}
	return true
}

// bindOptionalJSON допускает пустое тело (поиск со значениями по умолчанию).
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, customErrors.NewInvalidArgument("malformed body"))
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		writeError(c, customErrors.NewInvalidArgument(name+" must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func principal(c *gin.Context) (model.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		// RequireRole не стоял перед ручкой
		writeError(c, customErrors.ErrMissingToken)
	}
	return p, ok
}

func (h *Handler) Health(check func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c); err != nil {
				h.log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
