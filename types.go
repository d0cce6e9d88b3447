package accounts

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated account
type Identity interface {
	ID() string
	Email() string
	Nickname() string
	Role() string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetAccessTokenExpiration() time.Duration
	GetRefreshTokenExpiration() time.Duration
	GetIssuer() string
	GetContextKey() string
	GetAuthScheme() string
}

// IdentityProvider ensures we have a store to retrieve auth identities.
// VerifyIdentity must fail the same way for an unknown identifier and a
// password mismatch so callers cannot tell which factor was wrong.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService issues and validates the signed tokens that carry a
// session. Access tokens embed the role claim, refresh tokens only the
// subject: the role is re-derived from the live account on refresh.
type TokenService interface {
	GenerateAccessToken(identity Identity) (string, error)
	GenerateRefreshToken(subject string) (string, error)
	Validate(tokenString string) (*JWTClaims, error)
	ExtractSubject(tokenString string) (string, error)
	ExtractClaim(tokenString, name string) (any, error)
	IsTokenExpired(tokenString string) bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
