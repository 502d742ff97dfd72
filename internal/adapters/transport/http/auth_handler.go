package http

import (
	"net/http"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) JoinGuest(c *gin.Context) {
	a, err := h.auth.JoinGuest(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAuthorizedResponse(a))
}

func (h *Handler) Join(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.JoinDTO
		if !bindJSON(c, &in) {
			return
		}
		a, err := h.auth.Join(c.Request.Context(), role, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewAuthorizedResponse(a))
	}
}

func (h *Handler) Login(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.LoginDTO
		if !bindJSON(c, &in) {
			return
		}
		a, err := h.auth.Login(c.Request.Context(), role, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewAuthorizedResponse(a))
	}
}

func (h *Handler) Refresh(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.RefreshDTO
		if !bindJSON(c, &in) {
			return
		}
		a, err := h.auth.Refresh(c.Request.Context(), role, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewAuthorizedResponse(a))
	}
}
