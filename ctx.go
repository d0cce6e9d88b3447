package accounts

import (
	"context"
)

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// HasRoleInContext is a convenience check for handlers that gate on role.
func HasRoleInContext(ctx context.Context, role string) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return principal.HasRole(role)
}
