package service

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/guard"
	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetUser(ctx context.Context, p model.Principal, id uuid.UUID) (model.User, error)
	UpdateUser(ctx context.Context, p model.Principal, id uuid.UUID, in dto.UpdateUserDTO) (model.User, error)
	ListUsers(ctx context.Context, p model.Principal, in dto.UserSearchDTO) (model.Page[model.User], error)
	DeleteUser(ctx context.Context, p model.Principal, id uuid.UUID) error

	ListGuests(ctx context.Context, p model.Principal, in dto.PageDTO) (model.Page[model.Guest], error)
	GetGuest(ctx context.Context, p model.Principal, id uuid.UUID) (model.Guest, error)
	UpdateGuest(ctx context.Context, p model.Principal, id uuid.UUID, in dto.UpdateGuestDTO) (model.Guest, error)
	DeleteGuest(ctx context.Context, p model.Principal, id uuid.UUID) error
}

type principalService struct {
	users  repo.UserRepo
	guests repo.GuestRepo
	v      *validator.Validate
	log    *zap.Logger
}

func New(users repo.UserRepo, guests repo.GuestRepo, v *validator.Validate, log *zap.Logger) Service {
	if v == nil {
		v = validator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &principalService{users: users, guests: guests, v: v, log: log}
}

func (s *principalService) GetUser(ctx context.Context, p model.Principal, id uuid.UUID) (model.User, error) {
	return s.ownedUser(ctx, p, id)
}

func (s *principalService) UpdateUser(ctx context.Context, p model.Principal, id uuid.UUID, in dto.UpdateUserDTO) (model.User, error) {
	if err := s.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}
	if _, err := s.ownedUser(ctx, p, id); err != nil {
		return model.User{}, err
	}
	return s.users.UpdateUserEmail(ctx, id, in.Email)
}

func (s *principalService) ListUsers(ctx context.Context, p model.Principal, in dto.UserSearchDTO) (model.Page[model.User], error) {
	if !p.IsAdmin() {
		return model.Page[model.User]{}, customErrors.ErrForbidden
	}
	if err := s.v.Struct(in); err != nil {
		return model.Page[model.User]{}, customErrors.NewInvalidArgument(err.Error())
	}
	page, limit := normalize(in.Page, in.Limit)

	users, total, err := s.users.ListUsers(ctx, model.UserFilter{Email: in.Email, Page: page, Limit: limit})
	if err != nil {
		return model.Page[model.User]{}, err
	}
	return model.Page[model.User]{Pagination: model.NewPagination(page, limit, total), Data: users}, nil
}

// DeleteUser мягко удаляет пользователя, дальнейшие запросы с его токенами отклоняются.
func (s *principalService) DeleteUser(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if !p.IsAdmin() {
		return customErrors.ErrForbidden
	}
	if err := s.users.SoftDeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("id", id.String()), zap.String("by", p.ID.String()))
	return nil
}

func (s *principalService) ListGuests(ctx context.Context, p model.Principal, in dto.PageDTO) (model.Page[model.Guest], error) {
	if !p.IsAdmin() {
		return model.Page[model.Guest]{}, customErrors.ErrForbidden
	}
	if err := s.v.Struct(in); err != nil {
		return model.Page[model.Guest]{}, customErrors.NewInvalidArgument(err.Error())
	}
	page, limit := normalize(in.Page, in.Limit)

	guests, total, err := s.guests.ListGuests(ctx, page, limit)
	if err != nil {
		return model.Page[model.Guest]{}, err
	}
	return model.Page[model.Guest]{Pagination: model.NewPagination(page, limit, total), Data: guests}, nil
}

func (s *principalService) GetGuest(ctx context.Context, p model.Principal, id uuid.UUID) (model.Guest, error) {
	if !p.IsAdmin() {
		return model.Guest{}, customErrors.ErrForbidden
	}
	return s.guests.GetGuest(ctx, id)
}

func (s *principalService) UpdateGuest(ctx context.Context, p model.Principal, id uuid.UUID, in dto.UpdateGuestDTO) (model.Guest, error) {
	if !p.IsAdmin() {
		return model.Guest{}, customErrors.ErrForbidden
	}
	if err := s.v.Struct(in); err != nil {
		return model.Guest{}, customErrors.NewInvalidArgument(err.Error())
	}
	g, err := s.guests.SetGuestDeleted(ctx, id, *in.Deleted)
	if err != nil {
		return model.Guest{}, err
	}
	s.log.Info("guest updated",
		zap.String("id", id.String()),
		zap.Bool("deleted", *in.Deleted),
		zap.String("by", p.ID.String()),
	)
	return g, nil
}

func (s *principalService) DeleteGuest(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if !p.IsAdmin() {
		return customErrors.ErrForbidden
	}
	if err := s.guests.DeleteGuest(ctx, id); err != nil {
		return err
	}
	s.log.Info("guest deleted", zap.String("id", id.String()), zap.String("by", p.ID.String()))
	return nil
}

func (s *principalService) ownedUser(ctx context.Context, p model.Principal, id uuid.UUID) (model.User, error) {
	return guard.Owned(ctx, p,
		func(ctx context.Context) (model.User, error) { return s.users.GetUser(ctx, id) },
		func(u model.User) uuid.UUID { return u.ID },
	)
}

func normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
