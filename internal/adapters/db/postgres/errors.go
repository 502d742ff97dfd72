package postgres

import (
	"context"
	"errors"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

const (
	defaultPage  = 1
	defaultLimit = 10
)

// writeErr переводит ошибку записи в доменную. Уникальный индекс на активных
// строках единственный источник истины для дублей.
func writeErr(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return customErrors.ErrAlreadyExists
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return customErrors.ErrAlreadyExists
	}
	// sqlite (тесты) без трансляции ошибок
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return customErrors.ErrAlreadyExists
	}
	return customErrors.WrapInternal(err, op)
}

func readErr(err error, what, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return customErrors.NewNotFound(what)
	}
	return customErrors.WrapInternal(err, op)
}

// exists считает только активные строки: gorm сам добавляет deleted_at IS NULL.
func exists[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, what string) error {
	var n int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return customErrors.WrapInternal(err, "Exists "+what)
	}
	if n == 0 {
		return customErrors.NewNotFound(what)
	}
	return nil
}

func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// likeEscaper экранирует метасимволы LIKE; парный к нему ESCAPE '\' в запросах.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern: подстрока s как литерал, без подстановочных знаков пользователя.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
