package accounts

import (
	"fmt"
	"time"
)

// Principal is the resolved identity for the current request. It is
// built per request from a verified token plus the live account and is
// never shared across requests.
type Principal struct {
	Subject   string     `json:"subject,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	Nickname  string     `json:"nickname,omitempty"`
	Roles     []string   `json:"roles,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// HasRole checks if the principal carries the given role
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) String() string {
	issuedAt := "<nil>"
	if p.IssuedAt != nil {
		issuedAt = p.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf("subject=%s roles=%v iat=%s", p.Subject, p.Roles, issuedAt)
}

// PrincipalFromClaims builds a Principal from verified claims and the
// live identity the subject resolved to. The roles come from the
// identity, not the token, so role changes take effect immediately.
func PrincipalFromClaims(claims *JWTClaims, identity Identity) (*Principal, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}
	if identity == nil {
		return nil, ErrUserNotFound
	}

	issuedAt := claims.IssuedTime()
	expiresAt := claims.Expires()

	return &Principal{
		Subject:   claims.Subject(),
		UserID:    identity.ID(),
		Nickname:  identity.Nickname(),
		Roles:     []string{identity.Role()},
		IssuedAt:  &issuedAt,
		ExpiresAt: &expiresAt,
	}, nil
}
