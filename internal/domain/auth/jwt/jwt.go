package jwt

import (
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTypeRefresh = "refresh"

// Claims is the wire payload of both tokens: {id, type} for access,
// {id, type, tokenType:"refresh"} for refresh. jti/iss/iat/exp come from
// RegisteredClaims.
type Claims struct {
	PrincipalID string     `json:"id"`
	Type        model.Role `json:"type"`
	TokenType   string     `json:"tokenType,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) IsRefresh() bool { return c.TokenType == TokenTypeRefresh }

type JWTUtil interface {
	Issue(id uuid.UUID, role model.Role) (model.TokenPair, error)
	ParseAccess(raw string) (Claims, error)
	ParseRefresh(raw string) (Claims, error)
}
