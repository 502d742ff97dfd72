package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
)

// Ошибки авторизации. Наружу все они уходят одинаковым "unauthorized".
var (
	ErrMissingToken      = errors.New("missing token")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrExpired           = errors.New("token expired")
	ErrRoleMismatch      = errors.New("role mismatch")
	ErrWrongTokenType    = errors.New("wrong token type")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrTokenRevoked      = errors.New("token revoked")
)

var unauthorized = []error{
	ErrMissingToken,
	ErrInvalidSignature,
	ErrExpired,
	ErrRoleMismatch,
	ErrWrongTokenType,
	ErrPrincipalNotFound,
	ErrTokenRevoked,
}

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func NewNotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnauthorized reports whether err is any of the token/principal
// verification failures.
func IsUnauthorized(err error) bool {
	for _, e := range unauthorized {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
