package service

import (
	"context"
	"errors"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/guard"
	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type Service interface {
	Create(ctx context.Context, p model.Principal, in dto.CreateTodoDTO) (model.Todo, error)
	Get(ctx context.Context, p model.Principal, id uuid.UUID) (model.Todo, error)
	Update(ctx context.Context, p model.Principal, id uuid.UUID, in dto.UpdateTodoDTO) (model.Todo, error)
	Delete(ctx context.Context, p model.Principal, id uuid.UUID) error
	// List возвращает todo вызывающего пользователя.
	List(ctx context.Context, p model.Principal, in dto.TodoSearchDTO) (model.Page[model.Todo], error)
	// ListByOwner: todo конкретного пользователя: самому себе или админу.
	ListByOwner(ctx context.Context, p model.Principal, ownerID uuid.UUID, in dto.TodoSearchDTO) (model.Page[model.Todo], error)
}

type todoService struct {
	todos repo.TodoRepo
	users repo.PrincipalRepo
	v     *validator.Validate
	log   *zap.Logger
}

func New(todos repo.TodoRepo, users repo.PrincipalRepo, v *validator.Validate, log *zap.Logger) Service {
	if v == nil {
		v = validator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &todoService{todos: todos, users: users, v: v, log: log}
}

func (s *todoService) Create(ctx context.Context, p model.Principal, in dto.CreateTodoDTO) (model.Todo, error) {
	if p.Role != model.RoleUser {
		return model.Todo{}, customErrors.ErrForbidden
	}
	if err := s.v.Struct(in); err != nil {
		return model.Todo{}, customErrors.NewInvalidArgument(err.Error())
	}

	status := model.TodoPending
	if in.Status != "" {
		status = model.TodoStatus(in.Status)
	}

	t, err := s.todos.CreateTodo(ctx, model.Todo{
		OwnerID:     p.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
	})
	if err != nil {
		return model.Todo{}, passThrough(err, "CreateTodo")
	}
	s.log.Debug("todo created", zap.String("id", t.ID.String()), zap.String("owner", p.ID.String()))
	return t, nil
}

func (s *todoService) Get(ctx context.Context, p model.Principal, id uuid.UUID) (model.Todo, error) {
	return s.owned(ctx, p, id)
}

func (s *todoService) Update(ctx context.Context, p model.Principal, id uuid.UUID, in dto.UpdateTodoDTO) (model.Todo, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Todo{}, customErrors.NewInvalidArgument(err.Error())
	}

	t, err := s.owned(ctx, p, id)
	if err != nil {
		return model.Todo{}, err
	}

	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Status != nil {
		t.Status = model.TodoStatus(*in.Status)
	}

	updated, err := s.todos.UpdateTodo(ctx, t)
	if err != nil {
		return model.Todo{}, passThrough(err, "UpdateTodo")
	}
	return updated, nil
}

func (s *todoService) Delete(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.todos.DeleteTodo(ctx, id); err != nil {
		return passThrough(err, "DeleteTodo")
	}
	s.log.Debug("todo deleted", zap.String("id", id.String()), zap.String("by", p.ID.String()))
	return nil
}

func (s *todoService) List(ctx context.Context, p model.Principal, in dto.TodoSearchDTO) (model.Page[model.Todo], error) {
	if p.Role != model.RoleUser {
		return model.Page[model.Todo]{}, customErrors.ErrForbidden
	}
	return s.list(ctx, p.ID, in)
}

func (s *todoService) ListByOwner(ctx context.Context, p model.Principal, ownerID uuid.UUID, in dto.TodoSearchDTO) (model.Page[model.Todo], error) {
	if err := guard.CheckOwnership(p, ownerID); err != nil {
		return model.Page[model.Todo]{}, err
	}
	if err := s.users.Exists(ctx, ownerID); err != nil {
		return model.Page[model.Todo]{}, passThrough(err, "ListByOwner")
	}
	return s.list(ctx, ownerID, in)
}

func (s *todoService) list(ctx context.Context, ownerID uuid.UUID, in dto.TodoSearchDTO) (model.Page[model.Todo], error) {
	if err := s.v.Struct(in); err != nil {
		return model.Page[model.Todo]{}, customErrors.NewInvalidArgument(err.Error())
	}
	page, limit := normalize(in.Page, in.Limit)

	todos, total, err := s.todos.ListTodos(ctx, model.TodoFilter{
		OwnerID: ownerID,
		Status:  model.TodoStatus(in.Status),
		Search:  in.Search,
		OrderBy: in.OrderBy,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return model.Page[model.Todo]{}, passThrough(err, "ListTodos")
	}
	return model.Page[model.Todo]{
		Pagination: model.NewPagination(page, limit, total),
		Data:       todos,
	}, nil
}

func (s *todoService) owned(ctx context.Context, p model.Principal, id uuid.UUID) (model.Todo, error) {
	return guard.Owned(ctx, p,
		func(ctx context.Context) (model.Todo, error) { return s.todos.GetTodo(ctx, id) },
		func(t model.Todo) uuid.UUID { return t.OwnerID },
	)
}

func normalize(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// passThrough оставляет доменные ошибки как есть, остальное оборачивает.
func passThrough(err error, op string) error {
	switch {
	case customErrors.IsNotFound(err),
		customErrors.IsAlreadyExists(err),
		customErrors.IsInternal(err),
		errors.Is(err, customErrors.ErrForbidden):
		return err
	}
	return customErrors.WrapInternal(err, op)
}
