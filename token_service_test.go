package accounts_test

import (
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAccessToken(t *testing.T) {
	cfg := newTestConfig()
	service := accounts.NewTokenService(cfg, nil)
	identity := newTestIdentity()

	t.Run("generates a verifiable token", func(t *testing.T) {
		token, err := service.GenerateAccessToken(identity)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, identity.Email(), claims.Subject())
		assert.True(t, claims.IsAccess())
		assert.False(t, claims.IsRefresh())
		assert.True(t, claims.HasRole(accounts.RoleUser))
	})

	t.Run("expiry follows the configured access TTL", func(t *testing.T) {
		now := time.Now()
		token, err := service.GenerateAccessToken(identity)
		require.NoError(t, err)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		assert.WithinDuration(t, now.Add(cfg.AccessTokenTTL), claims.Expires(), 5*time.Second)
	})

	t.Run("rejects a nil identity", func(t *testing.T) {
		_, err := service.GenerateAccessToken(nil)
		assert.Error(t, err)
	})
}

func TestTokenService_GenerateRefreshToken(t *testing.T) {
	cfg := newTestConfig()
	service := accounts.NewTokenService(cfg, nil)

	t.Run("carries only the subject", func(t *testing.T) {
		token, err := service.GenerateRefreshToken("tester@example.com")
		require.NoError(t, err)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, "tester@example.com", claims.Subject())
		assert.True(t, claims.IsRefresh())
		assert.Empty(t, claims.Roles)
	})

	t.Run("expiry follows the configured refresh TTL", func(t *testing.T) {
		now := time.Now()
		token, err := service.GenerateRefreshToken("tester@example.com")
		require.NoError(t, err)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		assert.WithinDuration(t, now.Add(cfg.RefreshTokenTTL), claims.Expires(), 5*time.Second)
	})

	t.Run("rejects an empty subject", func(t *testing.T) {
		_, err := service.GenerateRefreshToken("")
		assert.Error(t, err)
	})
}

func TestTokenService_Validate(t *testing.T) {
	cfg := newTestConfig()
	identity := newTestIdentity()

	t.Run("expired token yields the expiry error", func(t *testing.T) {
		issuedAt := time.Now().Add(-time.Hour)
		minting := accounts.NewTokenService(cfg, nil).WithClock(func() time.Time { return issuedAt })

		token, err := minting.GenerateAccessToken(identity)
		require.NoError(t, err)

		service := accounts.NewTokenService(cfg, nil)
		_, err = service.Validate(token)
		assert.ErrorIs(t, err, accounts.ErrTokenExpired)
		assert.True(t, accounts.IsTokenExpiredError(err))
	})

	t.Run("wrong signing key yields the signature error", func(t *testing.T) {
		token, err := accounts.NewTokenService(cfg, nil).GenerateAccessToken(identity)
		require.NoError(t, err)

		otherCfg := newTestConfig()
		otherCfg.SigningKey = "a-different-signing-key"

		_, err = accounts.NewTokenService(otherCfg, nil).Validate(token)
		assert.ErrorIs(t, err, accounts.ErrTokenSignatureInvalid)
	})

	t.Run("garbage yields the malformed error", func(t *testing.T) {
		service := accounts.NewTokenService(cfg, nil)

		_, err := service.Validate("not-a-token")
		assert.ErrorIs(t, err, accounts.ErrTokenMalformed)
		assert.True(t, accounts.IsMalformedError(err))
	})

	t.Run("empty string yields the malformed error", func(t *testing.T) {
		service := accounts.NewTokenService(cfg, nil)

		_, err := service.Validate("")
		assert.ErrorIs(t, err, accounts.ErrTokenMalformed)
	})
}

func TestTokenService_ExtractSubject(t *testing.T) {
	cfg := newTestConfig()
	service := accounts.NewTokenService(cfg, nil)

	token, err := service.GenerateRefreshToken("tester@example.com")
	require.NoError(t, err)

	subject, err := service.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "tester@example.com", subject)

	_, err = service.ExtractSubject("garbage")
	assert.ErrorIs(t, err, accounts.ErrTokenMalformed)
}

func TestTokenService_ExtractClaim(t *testing.T) {
	cfg := newTestConfig()
	service := accounts.NewTokenService(cfg, nil)

	token, err := service.GenerateAccessToken(newTestIdentity())
	require.NoError(t, err)

	use, err := service.ExtractClaim(token, "use")
	require.NoError(t, err)
	assert.Equal(t, accounts.TokenUseAccess, use)

	issuer, err := service.ExtractClaim(token, "iss")
	require.NoError(t, err)
	assert.Equal(t, cfg.Issuer, issuer)
}

func TestTokenService_IsTokenExpired(t *testing.T) {
	cfg := newTestConfig()
	identity := newTestIdentity()

	t.Run("false for a live token", func(t *testing.T) {
		service := accounts.NewTokenService(cfg, nil)
		token, err := service.GenerateAccessToken(identity)
		require.NoError(t, err)

		assert.False(t, service.IsTokenExpired(token))
	})

	t.Run("true for an expired token", func(t *testing.T) {
		issuedAt := time.Now().Add(-time.Hour)
		minting := accounts.NewTokenService(cfg, nil).WithClock(func() time.Time { return issuedAt })
		token, err := minting.GenerateAccessToken(identity)
		require.NoError(t, err)

		assert.True(t, accounts.NewTokenService(cfg, nil).IsTokenExpired(token))
	})

	t.Run("false for a structurally broken token", func(t *testing.T) {
		service := accounts.NewTokenService(cfg, nil)
		assert.False(t, service.IsTokenExpired("garbage"))
	})
}
