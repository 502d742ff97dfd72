package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the principal kind carried in the token "type" claim.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Principal is the minimal verified payload handed to handlers.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type Guest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:,where:deleted_at IS NULL"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (u User) Account() Account {
	return Account{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:,where:deleted_at IS NULL"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (a Admin) Account() Account {
	return Account{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// Account: общий вид учётки с паролем (user и admin).
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in-progress"
	TodoCompleted  TodoStatus = "completed"
)

type Todo struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_todos_owner_title,where:deleted_at IS NULL"`
	Title       string     `gorm:"size:255;not null;uniqueIndex:idx_todos_owner_title,where:deleted_at IS NULL"`
	Description *string    `gorm:"size:500"`
	Status      TodoStatus `gorm:"size:20;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiredAt        time.Time
	RefreshableUntil time.Time
	RefreshTokenJTI  string
}

// Authorized is the result of join/login/refresh.
type Authorized struct {
	Principal Principal
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Token     TokenPair
}

type TodoFilter struct {
	OwnerID uuid.UUID
	Status  TodoStatus
	Search  string
	OrderBy string // created_at | updated_at
	Page    int
	Limit   int
}

type UserFilter struct {
	Email string
	Page  int
	Limit int
}

type Pagination struct {
	Current int
	Limit   int
	Records int64
	Pages   int
}

type Page[T any] struct {
	Pagination Pagination
	Data       []T
}

func NewPagination(page, limit int, records int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((records + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Current: page, Limit: limit, Records: records, Pages: pages}
}
