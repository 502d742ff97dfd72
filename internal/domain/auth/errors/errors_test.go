package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	err := NewInvalidArgument("bad")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}

	wrapped := WrapInternal(err, "ctx")
	if !IsInternal(wrapped) {
		t.Fatal("expected internal")
	}

	if !IsNotFound(NewNotFound("todo")) {
		t.Fatal("expected not found")
	}
}

func TestIsUnauthorized(t *testing.T) {
	for _, e := range []error{
		ErrMissingToken, ErrInvalidSignature, ErrExpired,
		ErrRoleMismatch, ErrWrongTokenType, ErrPrincipalNotFound, ErrTokenRevoked,
	} {
		if !IsUnauthorized(fmt.Errorf("guard: %w", e)) {
			t.Fatalf("%v must be unauthorized", e)
		}
	}
	if IsUnauthorized(ErrForbidden) || IsUnauthorized(errors.New("x")) {
		t.Fatal("forbidden/generic errors are not unauthorized")
	}
}
