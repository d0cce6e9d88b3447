package accounts

import (
	"context"
	stderrors "errors"

	"github.com/goliatone/go-errors"
)

// TokenBundle is the payload handed to a client after login or refresh.
// ExpiresIn is the access token lifetime in milliseconds.
type TokenBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       string `json:"user_id,omitempty"`
	Email        string `json:"email,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	Role         string `json:"role,omitempty"`
}

// Auther orchestrates login, refresh, and logout on top of an identity
// provider and a token service. It owns the policy of which typed error
// escapes to the client for each flow.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	cfg      Config
	logger   Logger
}

func NewAuthenticator(provider IdentityProvider, tokens TokenService, cfg Config) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		cfg:      cfg,
		logger:   defLogger{},
	}
}

func (a *Auther) WithLogger(l Logger) *Auther {
	if l != nil {
		a.logger = l
	}
	return a
}

// Login verifies the credentials and mints a fresh token pair. Any
// unexpected failure collapses into the invalid credentials error so a
// caller learns nothing beyond "the login did not work". A disabled
// account stays distinguishable, the caller proved the password.
func (a *Auther) Login(ctx context.Context, identifier, password string) (*TokenBundle, error) {
	identity, err := a.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		if stderrors.Is(err, ErrAccountDisabled) {
			return nil, ErrAccountDisabled
		}
		if stderrors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("login failed for %s: %v", identifier, err)
		return nil, ErrInvalidCredentials
	}

	return a.issueTokens(identity)
}

// Refresh exchanges a refresh token for a fresh pair. The account is
// re-fetched so a deleted or disabled user cannot refresh, and the new
// access token carries the account's current role, not the one it had
// when the refresh token was minted.
func (a *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	if a.tokens.IsTokenExpired(refreshToken) {
		return nil, ErrRefreshTokenExpired
	}

	claims, err := a.tokens.Validate(refreshToken)
	if err != nil {
		if IsTokenExpiredError(err) {
			return nil, ErrRefreshTokenExpired
		}
		return nil, asInvalidToken(err)
	}

	if !claims.IsRefresh() {
		return nil, ErrTokenMalformed
	}

	identity, err := a.provider.FindIdentityByIdentifier(ctx, claims.Subject())
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		if stderrors.Is(err, ErrAccountDisabled) {
			return nil, ErrAccountDisabled
		}
		a.logger.Error("refresh failed for %s: %v", claims.Subject(), err)
		return nil, ErrTokenMalformed
	}

	return a.issueTokens(identity)
}

// Logout is best effort. Tokens are stateless so there is nothing to
// revoke server side, the call only logs who walked away and never
// fails the request.
func (a *Auther) Logout(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}

	subject, err := a.tokens.ExtractSubject(accessToken)
	if err != nil {
		a.logger.Debug("logout with unusable token: %v", err)
		return
	}

	a.logger.Info("logout for %s", subject)
}

func (a *Auther) issueTokens(identity Identity) (*TokenBundle, error) {
	access, err := a.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate access token")
	}

	refresh, err := a.tokens.GenerateRefreshToken(identity.Email())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate refresh token")
	}

	return &TokenBundle{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    a.cfg.GetAccessTokenExpiration().Milliseconds(),
		UserID:       identity.ID(),
		Email:        identity.Email(),
		Nickname:     identity.Nickname(),
		Role:         identity.Role(),
	}, nil
}

func asInvalidToken(err error) error {
	if stderrors.Is(err, ErrTokenSignatureInvalid) {
		return ErrTokenSignatureInvalid
	}
	return ErrTokenMalformed
}
