package guard

import (
	"context"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

// CheckOwnership allows admins and the owner, everyone else gets ErrForbidden.
func CheckOwnership(p model.Principal, ownerID uuid.UUID) error {
	if p.IsAdmin() || p.ID == ownerID {
		return nil
	}
	return customErrors.ErrForbidden
}

// Owned fetches a resource and applies CheckOwnership to it. A missing
// resource is reported as not found before ownership is considered.
func Owned[T any](
	ctx context.Context,
	p model.Principal,
	fetch func(context.Context) (T, error),
	owner func(T) uuid.UUID,
) (T, error) {
	var zero T
	res, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	if err := CheckOwnership(p, owner(res)); err != nil {
		return zero, err
	}
	return res, nil
}
