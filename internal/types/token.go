package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token. Tokens from the auth
// provider carry the user id either in "user_id" or in the standard subject.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id,omitempty"`
}

// ResolveUserID returns UserID, falling back to the subject claim.
func (c *TokenClaims) ResolveUserID() (uuid.UUID, error) {
	if c.UserID != uuid.Nil {
		return c.UserID, nil
	}
	return uuid.Parse(c.Subject)
}
