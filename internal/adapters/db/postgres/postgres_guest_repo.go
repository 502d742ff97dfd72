package postgres

import (
	"context"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresGuestRepo struct {
	db *gorm.DB
}

func NewPostgresGuestRepo(db *gorm.DB) *PostgresGuestRepo {
	return &PostgresGuestRepo{db: db}
}

func (p *PostgresGuestRepo) Exists(ctx context.Context, id uuid.UUID) error {
	return exists[model.Guest](ctx, p.db, id, "guest")
}

func (p *PostgresGuestRepo) CreateGuest(ctx context.Context, g model.Guest) (model.Guest, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if err := p.db.WithContext(ctx).Create(&g).Error; err != nil {
		return model.Guest{}, writeErr(err, "CreateGuest")
	}
	return g, nil
}

func (p *PostgresGuestRepo) GetGuest(ctx context.Context, id uuid.UUID) (model.Guest, error) {
	var g model.Guest
	if err := p.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&g).Error; err != nil {
		return model.Guest{}, readErr(err, "guest", "GetGuest")
	}
	return g, nil
}

func (p *PostgresGuestRepo) ListGuests(ctx context.Context, page, limit int) ([]model.Guest, int64, error) {
	// приостановленные гости тоже видны админу
	q := p.db.WithContext(ctx).Unscoped().Model(&model.Guest{})

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListGuests")
	}

	var guests []model.Guest
	if err := q.Session(&gorm.Session{}).Scopes(paginate(page, limit)).Order("created_at DESC").Find(&guests).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListGuests")
	}
	return guests, total, nil
}

func (p *PostgresGuestRepo) SetGuestDeleted(ctx context.Context, id uuid.UUID, deleted bool) (model.Guest, error) {
	g, err := p.GetGuest(ctx, id)
	if err != nil {
		return model.Guest{}, err
	}

	at := gorm.DeletedAt{}
	if deleted {
		at = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
	}
	if err := p.db.WithContext(ctx).Unscoped().Model(&g).Update("deleted_at", at).Error; err != nil {
		return model.Guest{}, customErrors.WrapInternal(err, "SetGuestDeleted")
	}
	return p.GetGuest(ctx, id)
}

func (p *PostgresGuestRepo) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Guest{})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteGuest")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("guest")
	}
	return nil
}
