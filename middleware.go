package accounts

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionFilterConfig configures the per request session filter.
type SessionFilterConfig struct {
	Tokens     TokenService
	Provider   IdentityProvider
	ContextKey string
	AuthScheme string
	// Whitelist paths skip token resolution entirely. A trailing *
	// matches any suffix, anything else is an exact match.
	Whitelist []string
	Logger    Logger
}

// NewSessionFilter resolves a Principal from the Authorization header
// and stashes it in the request. It never rejects: a missing, expired,
// or garbage token just leaves the request anonymous and the route
// guards decide what anonymous is allowed to do. Running it twice on
// the same request is a no-op.
func NewSessionFilter(cfg SessionFilterConfig) fiber.Handler {
	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	return func(c *fiber.Ctx) error {
		if pathWhitelisted(c.Path(), cfg.Whitelist) {
			return c.Next()
		}

		if _, ok := PrincipalFrom(c, cfg.ContextKey); ok {
			return c.Next()
		}

		token := extractBearerToken(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if token == "" {
			return c.Next()
		}

		claims, err := cfg.Tokens.Validate(token)
		if err != nil {
			cfg.Logger.Debug("session filter: token rejected: %v", err)
			return c.Next()
		}

		if !claims.IsAccess() {
			return c.Next()
		}

		identity, err := cfg.Provider.FindIdentityByIdentifier(c.UserContext(), claims.Subject())
		if err != nil {
			cfg.Logger.Debug("session filter: no live account for %s: %v", claims.Subject(), err)
			return c.Next()
		}

		principal, err := PrincipalFromClaims(claims, identity)
		if err != nil {
			return c.Next()
		}

		c.Locals(cfg.ContextKey, principal)
		c.SetUserContext(WithPrincipal(c.UserContext(), principal))

		return c.Next()
	}
}

// RequireAuthenticated guards a route group. The session filter never
// rejects so this is where an anonymous request to a protected route
// turns into a 401.
func RequireAuthenticated(contextKey string) fiber.Handler {
	if contextKey == "" {
		contextKey = "user"
	}
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFrom(c, contextKey); !ok {
			return ErrUnauthorizedAccess
		}
		return c.Next()
	}
}

// RequireRole guards a route group on role membership.
func RequireRole(contextKey, role string) fiber.Handler {
	if contextKey == "" {
		contextKey = "user"
	}
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c, contextKey)
		if !ok || !principal.HasRole(role) {
			return ErrUnauthorizedAccess
		}
		return c.Next()
	}
}

// PrincipalFrom reads the resolved principal from the request locals.
func PrincipalFrom(c *fiber.Ctx, contextKey string) (*Principal, bool) {
	principal, ok := c.Locals(contextKey).(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

func extractBearerToken(header, scheme string) string {
	if header == "" {
		return ""
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

func pathWhitelisted(path string, whitelist []string) bool {
	for _, pattern := range whitelist {
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(pattern, "*")) {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}
