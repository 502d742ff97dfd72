package jwt

import (
	"errors"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const leeway = 2 * time.Second

type JwtUtilImpl struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

type Option func(*JwtUtilImpl)

// WithClock подменяет источник времени (нужно тестам на истечение).
func WithClock(now func() time.Time) Option {
	return func(j *JwtUtilImpl) { j.now = now }
}

func NewJWTUtil(cfg *config.Config, opts ...Option) (*JwtUtilImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty secret"), "NewJWTUtil")
	}
	j := &JwtUtilImpl{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
	for _, o := range opts {
		o(j)
	}
	return j, nil
}

// Issue signs the access/refresh pair. ExpiredAt and RefreshableUntil are
// taken from the same instant as the exp claims.
func (j *JwtUtilImpl) Issue(id uuid.UUID, role model.Role) (model.TokenPair, error) {
	now := j.now()
	accessExp := now.Add(j.accessTTL)
	refreshExp := now.Add(j.refreshTTL)
	refreshJTI := uuid.NewString()

	access, err := j.sign(jwt2.Claims{
		PrincipalID:      id.String(),
		Type:             role,
		RegisteredClaims: j.registered(now, accessExp, uuid.NewString()),
	})
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "sign access token")
	}

	refresh, err := j.sign(jwt2.Claims{
		PrincipalID:      id.String(),
		Type:             role,
		TokenType:        jwt2.TokenTypeRefresh,
		RegisteredClaims: j.registered(now, refreshExp, refreshJTI),
	})
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "sign refresh token")
	}

	return model.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiredAt:        accessExp,
		RefreshableUntil: refreshExp,
		RefreshTokenJTI:  refreshJTI,
	}, nil
}

func (j *JwtUtilImpl) ParseAccess(raw string) (jwt2.Claims, error) {
	claims, err := j.parse(raw)
	if err != nil {
		return jwt2.Claims{}, err
	}
	if claims.IsRefresh() {
		return jwt2.Claims{}, customErrors.ErrWrongTokenType
	}
	return claims, nil
}

func (j *JwtUtilImpl) ParseRefresh(raw string) (jwt2.Claims, error) {
	claims, err := j.parse(raw)
	if err != nil {
		return jwt2.Claims{}, err
	}
	if !claims.IsRefresh() {
		return jwt2.Claims{}, customErrors.ErrWrongTokenType
	}
	return claims, nil
}

func (j *JwtUtilImpl) registered(now, exp time.Time, jti string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        jti,
	}
}

func (j *JwtUtilImpl) sign(c jwt2.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.secret)
}

func (j *JwtUtilImpl) parse(raw string) (jwt2.Claims, error) {
	claims := &jwt2.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(j.now),
	)

	switch {
	case err == nil && token.Valid:
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return jwt2.Claims{}, customErrors.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return jwt2.Claims{}, customErrors.ErrExpired
	default:
		return jwt2.Claims{}, customErrors.ErrInvalidSignature
	}

	if !claims.Type.Valid() {
		return jwt2.Claims{}, customErrors.ErrInvalidSignature
	}
	if _, err := uuid.Parse(claims.PrincipalID); err != nil {
		return jwt2.Claims{}, customErrors.ErrInvalidSignature
	}
	return *claims, nil
}
