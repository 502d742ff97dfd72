package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/password"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/app/auth/verifier"
	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Service interface {
	JoinGuest(ctx context.Context) (model.Authorized, error)
	Join(ctx context.Context, role model.Role, in dto.JoinDTO) (model.Authorized, error)
	Login(ctx context.Context, role model.Role, in dto.LoginDTO) (model.Authorized, error)
	Refresh(ctx context.Context, role model.Role, in dto.RefreshDTO) (model.Authorized, error)
}

type Deps struct {
	Guests   repo.GuestRepo
	Accounts map[model.Role]repo.AccountRepo
	// nil: refresh-токены не отслеживаются и живут до exp
	Tokens   repo.TokenRepo
	JWT      jwt.JWTUtil
	Verifier *verifier.Verifier
	Hasher   password.Hasher
	Validate *validator.Validate
	Log      *zap.Logger
}

type authService struct {
	Deps

	dummyOnce   sync.Once
	dummyDigest string
}

func New(d Deps) Service {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Validate == nil {
		d.Validate = validator.New()
	}
	return &authService{Deps: d}
}

func (a *authService) JoinGuest(ctx context.Context) (model.Authorized, error) {
	g, err := a.Guests.CreateGuest(ctx, model.Guest{})
	if err != nil {
		return model.Authorized{}, customErrors.WrapInternal(err, "JoinGuest")
	}

	p := model.Principal{ID: g.ID, Role: model.RoleGuest}
	pair, err := a.issue(ctx, p)
	if err != nil {
		a.Log.Warn("guest created without tokens", zap.String("id", g.ID.String()), zap.Error(err))
		return model.Authorized{}, err
	}

	a.Log.Info("guest joined", zap.String("id", g.ID.String()))
	return model.Authorized{
		Principal: p,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
		Token:     pair,
	}, nil
}

func (a *authService) Join(ctx context.Context, role model.Role, in dto.JoinDTO) (model.Authorized, error) {
	accounts, err := a.accounts(role)
	if err != nil {
		return model.Authorized{}, err
	}
	if err := a.Validate.Struct(in); err != nil {
		return model.Authorized{}, customErrors.NewInvalidArgument(err.Error())
	}

	// предварительная проверка только для понятной ошибки; истину держит уникальный индекс
	_, err = accounts.GetAccountByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return model.Authorized{}, customErrors.ErrAlreadyExists
	case !errors.Is(err, customErrors.ErrNotFound):
		return model.Authorized{}, customErrors.WrapInternal(err, "Join")
	}

	digest, err := a.Hasher.Hash(in.Password)
	if err != nil {
		return model.Authorized{}, err
	}

	acc, err := accounts.CreateAccount(ctx, model.Account{Email: in.Email, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Authorized{}, customErrors.ErrAlreadyExists
		}
		return model.Authorized{}, customErrors.WrapInternal(err, "Join")
	}

	a.Log.Info("account joined",
		zap.String("role", role.String()),
		zap.String("id", acc.ID.String()),
		zap.String("email_hash", hashEmail(in.Email)),
	)
	out, err := a.authorized(ctx, role, acc)
	if err != nil {
		// аккаунт уже есть: клиенту остаётся login
		a.Log.Warn("account created without tokens",
			zap.String("role", role.String()),
			zap.String("id", acc.ID.String()),
			zap.Error(err),
		)
		return model.Authorized{}, err
	}
	return out, nil
}

func (a *authService) Login(ctx context.Context, role model.Role, in dto.LoginDTO) (model.Authorized, error) {
	accounts, err := a.accounts(role)
	if err != nil {
		return model.Authorized{}, err
	}
	if err := a.Validate.Struct(in); err != nil {
		return model.Authorized{}, customErrors.NewInvalidArgument(err.Error())
	}

	acc, err := accounts.GetAccountByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// тратим столько же времени, сколько на настоящую проверку
		a.Hasher.Verify(in.Password, a.dummy())
		a.Log.Debug("login failed", zap.String("role", role.String()), zap.String("email_hash", hashEmail(in.Email)))
		return model.Authorized{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.Authorized{}, customErrors.WrapInternal(err, "Login")
	}

	if !a.Hasher.Verify(in.Password, acc.PasswordHash) {
		a.Log.Debug("login failed", zap.String("role", role.String()), zap.String("email_hash", hashEmail(in.Email)))
		return model.Authorized{}, customErrors.ErrInvalidCredentials
	}

	a.Log.Info("account logged in",
		zap.String("role", role.String()),
		zap.String("id", acc.ID.String()),
		zap.String("email_hash", hashEmail(in.Email)),
	)
	return a.authorized(ctx, role, acc)
}

func (a *authService) Refresh(ctx context.Context, role model.Role, in dto.RefreshDTO) (model.Authorized, error) {
	if !role.Valid() {
		return model.Authorized{}, customErrors.NewInvalidArgument(fmt.Sprintf("unknown role %q", role))
	}
	if err := a.Validate.Struct(in); err != nil {
		return model.Authorized{}, customErrors.NewInvalidArgument(err.Error())
	}

	p, claims, err := a.Verifier.Refresh(ctx, in.RefreshToken, role)
	if err != nil {
		return model.Authorized{}, err
	}

	// подписываем до Consume: ошибка подписи не сжигает старый jti
	pair, err := a.sign(p)
	if err != nil {
		return model.Authorized{}, err
	}

	if a.Tokens != nil {
		ok, err := a.Tokens.Consume(ctx, claims.ID)
		if err != nil {
			return model.Authorized{}, customErrors.WrapInternal(err, "Refresh")
		}
		if !ok {
			a.Log.Debug("refresh token reuse", zap.String("role", role.String()), zap.String("id", p.ID.String()))
			return model.Authorized{}, customErrors.ErrTokenRevoked
		}
	}

	if err := a.store(ctx, pair); err != nil {
		// старый jti уже погашен, новый не записан: нужен повторный login
		a.Log.Warn("refresh consumed without replacement",
			zap.String("role", role.String()),
			zap.String("id", p.ID.String()),
			zap.Error(err),
		)
		return model.Authorized{}, err
	}
	return model.Authorized{Principal: p, Token: pair}, nil
}

func (a *authService) accounts(role model.Role) (repo.AccountRepo, error) {
	accounts, ok := a.Accounts[role]
	if !ok {
		return nil, customErrors.NewInvalidArgument(fmt.Sprintf("role %q has no credentials", role))
	}
	return accounts, nil
}

func (a *authService) authorized(ctx context.Context, role model.Role, acc model.Account) (model.Authorized, error) {
	p := model.Principal{ID: acc.ID, Role: role}
	pair, err := a.issue(ctx, p)
	if err != nil {
		return model.Authorized{}, err
	}
	return model.Authorized{
		Principal: p,
		Email:     acc.Email,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
		Token:     pair,
	}, nil
}

func (a *authService) issue(ctx context.Context, p model.Principal) (model.TokenPair, error) {
	pair, err := a.sign(p)
	if err != nil {
		return model.TokenPair{}, err
	}
	if err := a.store(ctx, pair); err != nil {
		return model.TokenPair{}, err
	}
	return pair, nil
}

func (a *authService) sign(p model.Principal) (model.TokenPair, error) {
	pair, err := a.JWT.Issue(p.ID, p.Role)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Issue")
	}
	return pair, nil
}

func (a *authService) store(ctx context.Context, pair model.TokenPair) error {
	if a.Tokens == nil {
		return nil
	}
	if err := a.Tokens.Store(ctx, pair.RefreshTokenJTI, pair.RefreshableUntil); err != nil {
		return customErrors.WrapInternal(err, "StoreRefresh")
	}
	return nil
}

func (a *authService) dummy() string {
	a.dummyOnce.Do(func() {
		a.dummyDigest, _ = a.Hasher.Hash("timing-equalizer")
	})
	return a.dummyDigest
}

func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
