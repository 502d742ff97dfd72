package dto

import (
	"time"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
)

// TimeLayout: ISO-8601 в UTC с миллисекундами.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type JoinDTO struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateTodoDTO struct {
	Title       string  `json:"title"       validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      string  `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
}

// UpdateTodoDTO: частичное обновление, nil поля не трогаются.
type UpdateTodoDTO struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
}

type TodoSearchDTO struct {
	Page   int    `json:"page"   validate:"omitempty,min=1"`
	Limit  int    `json:"limit"  validate:"omitempty,min=1,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Search string `json:"search" validate:"omitempty,max=255"`
	// сортировка всегда по убыванию
	OrderBy string `json:"orderBy" validate:"omitempty,oneof=created_at updated_at"`
}

type UserSearchDTO struct {
	Page  int    `json:"page"  validate:"omitempty,min=1"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Email string `json:"email" validate:"omitempty,max=255"`
}

type PageDTO struct {
	Page  int `json:"page"  validate:"omitempty,min=1"`
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}

type UpdateUserDTO struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// UpdateGuestDTO: deleted=true приостанавливает гостя, false восстанавливает.
type UpdateGuestDTO struct {
	Deleted *bool `json:"deleted" validate:"required"`
}

/* ─────────────────────────── responses ─────────────────────────── */

type TokenResponse struct {
	Access           string `json:"access"`
	Refresh          string `json:"refresh"`
	ExpiredAt        string `json:"expired_at"`
	RefreshableUntil string `json:"refreshable_until"`
}

type AuthorizedResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email,omitempty"`
	CreatedAt string        `json:"created_at,omitempty"`
	UpdatedAt string        `json:"updated_at,omitempty"`
	Token     TokenResponse `json:"token"`
}

func NewAuthorizedResponse(a model.Authorized) AuthorizedResponse {
	resp := AuthorizedResponse{
		ID:    a.Principal.ID.String(),
		Email: a.Email,
		Token: TokenResponse{
			Access:           a.Token.AccessToken,
			Refresh:          a.Token.RefreshToken,
			ExpiredAt:        FormatTime(a.Token.ExpiredAt),
			RefreshableUntil: FormatTime(a.Token.RefreshableUntil),
		},
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = FormatTime(a.CreatedAt)
		resp.UpdatedAt = FormatTime(a.UpdatedAt)
	}
	return resp
}

type TodoResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewTodoResponse(t model.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID.String(),
		OwnerID:     t.OwnerID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   FormatTime(t.CreatedAt),
		UpdatedAt:   FormatTime(t.UpdatedAt),
	}
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		CreatedAt: FormatTime(u.CreatedAt),
		UpdatedAt: FormatTime(u.UpdatedAt),
	}
}

type GuestResponse struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	DeletedAt *string `json:"deleted_at"`
}

func NewGuestResponse(g model.Guest) GuestResponse {
	resp := GuestResponse{
		ID:        g.ID.String(),
		CreatedAt: FormatTime(g.CreatedAt),
		UpdatedAt: FormatTime(g.UpdatedAt),
	}
	if g.DeletedAt.Valid {
		at := FormatTime(g.DeletedAt.Time)
		resp.DeletedAt = &at
	}
	return resp
}

type PaginationResponse struct {
	Current int   `json:"current"`
	Limit   int   `json:"limit"`
	Records int64 `json:"records"`
	Pages   int   `json:"pages"`
}

type PageResponse[T any] struct {
	Pagination PaginationResponse `json:"pagination"`
	Data       []T                `json:"data"`
}

// NewPageResponse конвертирует страницу доменных объектов через conv.
func NewPageResponse[M, T any](p model.Page[M], conv func(M) T) PageResponse[T] {
	data := make([]T, 0, len(p.Data))
	for _, m := range p.Data {
		data = append(data, conv(m))
	}
	return PageResponse[T]{
		Pagination: PaginationResponse{
			Current: p.Pagination.Current,
			Limit:   p.Pagination.Limit,
			Records: p.Pagination.Records,
			Pages:   p.Pagination.Pages,
		},
		Data: data,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
