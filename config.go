package accounts

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default token lifetimes. Values are milliseconds to match the
// expires_in field handed to clients.
const (
	DefaultAccessTokenTTLMs  = 900_000
	DefaultRefreshTokenTTLMs = 604_800_000
)

// LoadEnv loads dotenv files into the process environment. A missing
// file is not an error, real variables always win over file values.
func LoadEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// SimpleConfig is an env backed Config implementation.
type SimpleConfig struct {
	SigningKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	ContextKey      string
	AuthScheme      string
	ListenAddr      string
	DatabaseDSN     string
}

var _ Config = (*SimpleConfig)(nil)

// NewConfigFromEnv builds a SimpleConfig from the environment. TTLs are
// read in milliseconds.
func NewConfigFromEnv() *SimpleConfig {
	return &SimpleConfig{
		SigningKey:      envString("ACCOUNTS_SIGNING_KEY", ""),
		AccessTokenTTL:  time.Duration(envInt("ACCOUNTS_ACCESS_TOKEN_TTL_MS", DefaultAccessTokenTTLMs)) * time.Millisecond,
		RefreshTokenTTL: time.Duration(envInt("ACCOUNTS_REFRESH_TOKEN_TTL_MS", DefaultRefreshTokenTTLMs)) * time.Millisecond,
		Issuer:          envString("ACCOUNTS_ISSUER", "accounts"),
		ContextKey:      envString("ACCOUNTS_CONTEXT_KEY", "user"),
		AuthScheme:      envString("ACCOUNTS_AUTH_SCHEME", "Bearer"),
		ListenAddr:      envString("ACCOUNTS_LISTEN_ADDR", ":8080"),
		DatabaseDSN:     envString("ACCOUNTS_DATABASE_DSN", "file::memory:?cache=shared"),
	}
}

func (c *SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c *SimpleConfig) GetAccessTokenExpiration() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return DefaultAccessTokenTTLMs * time.Millisecond
	}
	return c.AccessTokenTTL
}

func (c *SimpleConfig) GetRefreshTokenExpiration() time.Duration {
	if c.RefreshTokenTTL <= 0 {
		return DefaultRefreshTokenTTLMs * time.Millisecond
	}
	return c.RefreshTokenTTL
}

func (c *SimpleConfig) GetIssuer() string { return c.Issuer }

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return val
}
