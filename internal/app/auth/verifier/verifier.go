package verifier

import (
	"context"
	"errors"
	"fmt"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/repo"
	"github.com/google/uuid"
)

// Verifier checks a token structurally and then confirms that the principal
// is still active. One instance serves every role; the lookup for each role
// is plugged in at construction.
type Verifier struct {
	jwtUtil jwt.JWTUtil
	lookups map[model.Role]repo.PrincipalRepo
}

func New(jwtUtil jwt.JWTUtil, lookups map[model.Role]repo.PrincipalRepo) *Verifier {
	return &Verifier{jwtUtil: jwtUtil, lookups: lookups}
}

// Verify is Token followed by Confirm. An empty expected role accepts any kind.
func (v *Verifier) Verify(ctx context.Context, raw string, expected model.Role) (model.Principal, error) {
	p, err := v.Token(raw, expected)
	if err != nil {
		return model.Principal{}, err
	}
	if err := v.Confirm(ctx, p); err != nil {
		return model.Principal{}, err
	}
	return p, nil
}

// Token validates signature, issuer, expiry and the role of an access token
// without touching storage.
func (v *Verifier) Token(raw string, expected model.Role) (model.Principal, error) {
	claims, err := v.jwtUtil.ParseAccess(raw)
	if err != nil {
		return model.Principal{}, err
	}
	return principalFrom(claims, expected)
}

// Refresh is the refresh-token counterpart of Verify. The claims are returned
// so that the caller can rotate the jti.
func (v *Verifier) Refresh(ctx context.Context, raw string, expected model.Role) (model.Principal, jwt.Claims, error) {
	claims, err := v.jwtUtil.ParseRefresh(raw)
	if err != nil {
		return model.Principal{}, jwt.Claims{}, err
	}
	p, err := principalFrom(claims, expected)
	if err != nil {
		return model.Principal{}, jwt.Claims{}, err
	}
	if err := v.Confirm(ctx, p); err != nil {
		return model.Principal{}, jwt.Claims{}, err
	}
	return p, claims, nil
}

// Confirm re-fetches the principal; soft-deleted and removed records fail
// with ErrPrincipalNotFound.
func (v *Verifier) Confirm(ctx context.Context, p model.Principal) error {
	lookup, ok := v.lookups[p.Role]
	if !ok {
		return customErrors.WrapInternal(fmt.Errorf("no lookup for role %q", p.Role), "Confirm")
	}
	err := lookup.Exists(ctx, p.ID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrPrincipalNotFound
	default:
		return customErrors.WrapInternal(err, "Confirm")
	}
}

func principalFrom(claims jwt.Claims, expected model.Role) (model.Principal, error) {
	if expected != "" && claims.Type != expected {
		return model.Principal{}, customErrors.ErrRoleMismatch
	}
	id, err := uuid.Parse(claims.PrincipalID)
	if err != nil {
		return model.Principal{}, customErrors.ErrInvalidSignature
	}
	return model.Principal{ID: id, Role: claims.Type}, nil
}
