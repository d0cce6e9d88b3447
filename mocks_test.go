package accounts_test

import (
	"context"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/mock"
)

// testIdentity is a plain value Identity for tests that only need data.
type testIdentity struct {
	id       string
	email    string
	nickname string
	role     string
}

func (t testIdentity) ID() string       { return t.id }
func (t testIdentity) Email() string    { return t.email }
func (t testIdentity) Nickname() string { return t.nickname }
func (t testIdentity) Role() string     { return t.role }

func newTestIdentity() testIdentity {
	return testIdentity{
		id:       "b9a90b46-1f42-47d9-8bd2-c023f40f6e1a",
		email:    "tester@example.com",
		nickname: "tester",
		role:     accounts.RoleUser,
	}
}

func newTestConfig() *accounts.SimpleConfig {
	return &accounts.SimpleConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "accounts-test",
		ContextKey:      "user",
		AuthScheme:      "Bearer",
	}
}

// MockIdentityProvider implements accounts.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (accounts.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(accounts.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (accounts.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(accounts.Identity), args.Error(1)
}

// MockUserStore implements accounts.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

// MockTokenService implements accounts.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(identity accounts.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) GenerateRefreshToken(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (*accounts.JWTClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.JWTClaims), args.Error(1)
}

func (m *MockTokenService) ExtractSubject(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ExtractClaim(tokenString, name string) (any, error) {
	args := m.Called(tokenString, name)
	return args.Get(0), args.Error(1)
}

func (m *MockTokenService) IsTokenExpired(tokenString string) bool {
	args := m.Called(tokenString)
	return args.Bool(0)
}

// MockLogger implements accounts.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) { m.Called(format, args) }
func (m *MockLogger) Info(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Warn(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Error(format string, args ...any) { m.Called(format, args) }
