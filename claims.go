package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenUseAccess marks short lived tokens that authorize requests.
	TokenUseAccess = "access"
	// TokenUseRefresh marks long lived tokens that only mint new pairs.
	TokenUseRefresh = "refresh"
)

// JWTClaims is the claim set carried by both token kinds. Refresh tokens
// leave Roles empty: the role is re-derived from the live account when
// the token is used.
type JWTClaims struct {
	jwt.RegisteredClaims
	Roles    []string `json:"roles,omitempty"`
	TokenUse string   `json:"use,omitempty"`
}

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// HasRole checks if the role claim includes the given role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAccess reports whether the token was minted as an access token.
func (c *JWTClaims) IsAccess() bool {
	return c.TokenUse == "" || c.TokenUse == TokenUseAccess
}

// IsRefresh reports whether the token was minted as a refresh token.
func (c *JWTClaims) IsRefresh() bool {
	return c.TokenUse == TokenUseRefresh
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedTime returns the issued at time
func (c *JWTClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
