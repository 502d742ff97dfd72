package postgres

import (
	"context"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) Exists(ctx context.Context, id uuid.UUID) error {
	return exists[model.User](ctx, p.db, id, "user")
}

func (p *PostgresUserRepo) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	user := model.User{ID: a.ID, Email: a.Email, PasswordHash: a.PasswordHash}
	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return model.Account{}, writeErr(err, "CreateUser")
	}
	return user.Account(), nil
}

func (p *PostgresUserRepo) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	var u model.User
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return model.Account{}, readErr(err, "user", "GetUserByEmail")
	}
	return u.Account(), nil
}

func (p *PostgresUserRepo) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return model.User{}, readErr(err, "user", "GetUser")
	}
	return u, nil
}

func (p *PostgresUserRepo) ListUsers(ctx context.Context, f model.UserFilter) ([]model.User, int64, error) {
	q := p.db.WithContext(ctx).Model(&model.User{})
	if s := strings.TrimSpace(f.Email); s != "" {
		q = q.Where(`LOWER(email) LIKE ? ESCAPE '\'`, likePattern(strings.ToLower(s)))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListUsers")
	}

	var users []model.User
	if err := q.Session(&gorm.Session{}).Scopes(paginate(f.Page, f.Limit)).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListUsers")
	}
	return users, total, nil
}

func (p *PostgresUserRepo) UpdateUserEmail(ctx context.Context, id uuid.UUID, email string) (model.User, error) {
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("email", email)
	if err := res.Error; err != nil {
		return model.User{}, writeErr(err, "UpdateUserEmail")
	}
	if res.RowsAffected == 0 {
		return model.User{}, customErrors.NewNotFound("user")
	}
	return p.GetUser(ctx, id)
}

// SoftDeleteUser проставляет deleted_at; выданные токены перестают проходить проверку.
func (p *PostgresUserRepo) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "SoftDeleteUser")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("user")
	}
	return nil
}
