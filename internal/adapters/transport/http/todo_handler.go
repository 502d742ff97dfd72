package http

import (
	"net/http"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) CreateTodo(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in dto.CreateTodoDTO
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.todos.Create(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTodoResponse(t))
}

// SearchTodos: PATCH с телом-фильтром, тело может отсутствовать.
func (h *Handler) SearchTodos(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in dto.TodoSearchDTO
	if !bindOptionalJSON(c, &in) {
		return
	}
	page, err := h.todos.List(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.NewTodoResponse))
}

func (h *Handler) SearchOwnerTodos(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	ownerID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	var in dto.TodoSearchDTO
	if !bindOptionalJSON(c, &in) {
		return
	}
	page, err := h.todos.ListByOwner(c.Request.Context(), p, ownerID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.NewTodoResponse))
}

func (h *Handler) GetTodo(c *gin.Context) {
	p, id, ok := h.todoTarget(c)
	if !ok {
		return
	}
	t, err := h.todos.Get(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(t))
}

func (h *Handler) UpdateTodo(c *gin.Context) {
	p, id, ok := h.todoTarget(c)
	if !ok {
		return
	}
	var in dto.UpdateTodoDTO
	if !bindOptionalJSON(c, &in) {
		return
	}
	t, err := h.todos.Update(c.Request.Context(), p, id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(t))
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	p, id, ok := h.todoTarget(c)
	if !ok {
		return
	}
	if err := h.todos.Delete(c.Request.Context(), p, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// todoTarget достаёт principal и :todoId. На вложенных маршрутах
// (/users/:userId/todos/:todoId) todo другого владельца считается отсутствующим.
func (h *Handler) todoTarget(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	p, ok := principal(c)
	if !ok {
		return model.Principal{}, uuid.Nil, false
	}
	id, ok := uuidParam(c, "todoId")
	if !ok {
		return model.Principal{}, uuid.Nil, false
	}
	if c.Param("userId") == "" {
		return p, id, true
	}

	ownerID, ok := uuidParam(c, "userId")
	if !ok {
		return model.Principal{}, uuid.Nil, false
	}
	t, err := h.todos.Get(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return model.Principal{}, uuid.Nil, false
	}
	if t.OwnerID != ownerID {
		writeError(c, customErrors.NewNotFound("todo"))
		return model.Principal{}, uuid.Nil, false
	}
	return p, id, true
}
