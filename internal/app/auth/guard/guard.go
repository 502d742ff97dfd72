package guard

import (
	"context"
	"fmt"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"go.uber.org/zap"
)

// Stage is the furthest point a request reached in authorization.
type Stage int

const (
	StageUnauthenticated Stage = iota
	StageTokenExtracted
	StageTokenVerified
	StagePrincipalConfirmed
	StageAuthorized
	StageRejected
)

func (s Stage) String() string {
	switch s {
	case StageUnauthenticated:
		return "unauthenticated"
	case StageTokenExtracted:
		return "token_extracted"
	case StageTokenVerified:
		return "token_verified"
	case StagePrincipalConfirmed:
		return "principal_confirmed"
	case StageAuthorized:
		return "authorized"
	case StageRejected:
		return "rejected"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// RejectedError is returned for every failed request. Reached is the last
// stage passed before the failure.
type RejectedError struct {
	Reached Stage
	Err     error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected after %s: %v", e.Reached, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

type TokenVerifier interface {
	Token(raw string, expected model.Role) (model.Principal, error)
	Confirm(ctx context.Context, p model.Principal) error
}

type Guard struct {
	verifier TokenVerifier
	log      *zap.Logger
}

func New(v TokenVerifier, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{verifier: v, log: log}
}

// Authorize walks a request from the raw Authorization header to an
// authorized principal of the required role.
func (g *Guard) Authorize(ctx context.Context, header string, role model.Role) (model.Principal, error) {
	stage := StageUnauthenticated

	raw, err := ExtractBearer(header)
	if err != nil {
		return model.Principal{}, g.reject(stage, role, err)
	}
	stage = StageTokenExtracted

	p, err := g.verifier.Token(raw, role)
	if err != nil {
		return model.Principal{}, g.reject(stage, role, err)
	}
	stage = StageTokenVerified

	if err := g.verifier.Confirm(ctx, p); err != nil {
		return model.Principal{}, g.reject(stage, role, err)
	}
	// StagePrincipalConfirmed -> StageAuthorized: роль уже сверена в Token
	return p, nil
}

func (g *Guard) reject(reached Stage, role model.Role, err error) error {
	g.log.Debug("authorization rejected",
		zap.String("stage", reached.String()),
		zap.String("role", role.String()),
		zap.Error(err),
	)
	return &RejectedError{Reached: reached, Err: err}
}

// ExtractBearer достаёт токен из "Bearer <token>". Схема регистронезависима.
func ExtractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", customErrors.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", customErrors.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", customErrors.ErrMissingToken
	}
	return token, nil
}
