package postgres

import (
	"context"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresTodoRepo struct {
	db *gorm.DB
}

func NewPostgresTodoRepo(db *gorm.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

func (p *PostgresTodoRepo) CreateTodo(ctx context.Context, t model.Todo) (model.Todo, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := p.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Todo{}, writeErr(err, "CreateTodo")
	}
	return t, nil
}

func (p *PostgresTodoRepo) GetTodo(ctx context.Context, id uuid.UUID) (model.Todo, error) {
	var t model.Todo
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return model.Todo{}, readErr(err, "todo", "GetTodo")
	}
	return t, nil
}

func (p *PostgresTodoRepo) UpdateTodo(ctx context.Context, t model.Todo) (model.Todo, error) {
	res := p.db.WithContext(ctx).
		Model(&model.Todo{}).
		Where("id = ?", t.ID).
		Select("title", "description", "status").
		Updates(&t)
	if err := res.Error; err != nil {
		return model.Todo{}, writeErr(err, "UpdateTodo")
	}
	if res.RowsAffected == 0 {
		return model.Todo{}, customErrors.NewNotFound("todo")
	}
	return p.GetTodo(ctx, t.ID)
}

// DeleteTodo удаляет физически, как и в исходной схеме todo.
func (p *PostgresTodoRepo) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Todo{})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteTodo")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("todo")
	}
	return nil
}

func (p *PostgresTodoRepo) ListTodos(ctx context.Context, f model.TodoFilter) ([]model.Todo, int64, error) {
	q := p.db.WithContext(ctx).Model(&model.Todo{})
	if f.OwnerID != uuid.Nil {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := likePattern(strings.ToLower(s))
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListTodos")
	}

	order := "created_at DESC"
	if f.OrderBy == "updated_at" {
		order = "updated_at DESC"
	}

	var todos []model.Todo
	if err := q.Session(&gorm.Session{}).Scopes(paginate(f.Page, f.Limit)).Order(order).Find(&todos).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListTodos")
	}
	return todos, total, nil
}
