package http

import (
	"net/http"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	u, err := h.principals.GetUser(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	var in dto.UpdateUserDTO
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.principals.UpdateUser(c.Request.Context(), p, id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

func (h *Handler) SearchUsers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in dto.UserSearchDTO
	if !bindOptionalJSON(c, &in) {
		return
	}
	page, err := h.principals.ListUsers(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.NewUserResponse))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	if err := h.principals.DeleteUser(c.Request.Context(), p, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SearchGuests(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in dto.PageDTO
	if !bindOptionalJSON(c, &in) {
		return
	}
	page, err := h.principals.ListGuests(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.NewGuestResponse))
}

func (h *Handler) GetGuest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "guestId")
	if !ok {
		return
	}
	g, err := h.principals.GetGuest(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGuestResponse(g))
}

func (h *Handler) UpdateGuest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "guestId")
	if !ok {
		return
	}
	var in dto.UpdateGuestDTO
	if !bindJSON(c, &in) {
		return
	}
	g, err := h.principals.UpdateGuest(c.Request.Context(), p, id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGuestResponse(g))
}

func (h *Handler) DeleteGuest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "guestId")
	if !ok {
		return
	}
	if err := h.principals.DeleteGuest(c.Request.Context(), p, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
