package repo

import (
	"context"
	"time"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

// PrincipalRepo is the per-kind lookup used by the verifier. Exists returns
// ErrNotFound when there is no active (deleted_at IS NULL) record.
type PrincipalRepo interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// AccountRepo covers the kinds that authenticate with email+password.
type AccountRepo interface {
	PrincipalRepo

	CreateAccount(ctx context.Context, a model.Account) (model.Account, error)

	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)
}

type GuestRepo interface {
	PrincipalRepo

	CreateGuest(ctx context.Context, g model.Guest) (model.Guest, error)

	GetGuest(ctx context.Context, id uuid.UUID) (model.Guest, error)

	ListGuests(ctx context.Context, page, limit int) ([]model.Guest, int64, error)

	// SetGuestDeleted ставит или снимает deleted_at; Exists после этого гостя не видит.
	SetGuestDeleted(ctx context.Context, id uuid.UUID, deleted bool) (model.Guest, error)

	DeleteGuest(ctx context.Context, id uuid.UUID) error
}

type UserRepo interface {
	AccountRepo

	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)

	ListUsers(ctx context.Context, f model.UserFilter) ([]model.User, int64, error)

	UpdateUserEmail(ctx context.Context, id uuid.UUID, email string) (model.User, error)

	SoftDeleteUser(ctx context.Context, id uuid.UUID) error
}

type TodoRepo interface {
	CreateTodo(ctx context.Context, t model.Todo) (model.Todo, error)

	GetTodo(ctx context.Context, id uuid.UUID) (model.Todo, error)

	UpdateTodo(ctx context.Context, t model.Todo) (model.Todo, error)

	DeleteTodo(ctx context.Context, id uuid.UUID) error

	ListTodos(ctx context.Context, f model.TodoFilter) ([]model.Todo, int64, error)
}

// TokenRepo tracks issued refresh-token jti values for rotation.
type TokenRepo interface {
	Store(ctx context.Context, jti string, expiresAt time.Time) error

	// Consume атомарно отзывает активный jti. false, если jti неизвестен или
	// уже был отозван.
	Consume(ctx context.Context, jti string) (bool, error)
}
