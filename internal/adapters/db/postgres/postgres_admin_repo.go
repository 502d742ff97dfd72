package postgres

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresAdminRepo struct {
	db *gorm.DB
}

func NewPostgresAdminRepo(db *gorm.DB) *PostgresAdminRepo {
	return &PostgresAdminRepo{db: db}
}

func (p *PostgresAdminRepo) Exists(ctx context.Context, id uuid.UUID) error {
	return exists[model.Admin](ctx, p.db, id, "admin")
}

func (p *PostgresAdminRepo) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	admin := model.Admin{ID: a.ID, Email: a.Email, PasswordHash: a.PasswordHash}
	if err := p.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return model.Account{}, writeErr(err, "CreateAdmin")
	}
	return admin.Account(), nil
}

func (p *PostgresAdminRepo) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	var a model.Admin
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return model.Account{}, readErr(err, "admin", "GetAdminByEmail")
	}
	return a.Account(), nil
}
