package accounts

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface using HS256 and
// a shared symmetric secret. Verification is a pure function of the
// token string and the current time: no state is held between calls.
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		accessTTL:  cfg.GetAccessTokenExpiration(),
		refreshTTL: cfg.GetRefreshTokenExpiration(),
		issuer:     cfg.GetIssuer(),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source, used by tests to pin expiry.
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// GenerateAccessToken mints a short lived token carrying the identity's
// role claim.
func (ts *TokenServiceImpl) GenerateAccessToken(identity Identity) (string, error) {
	if identity == nil {
		return "", goerrors.New("identity is required", goerrors.CategoryBadInput)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.Email(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
		},
		Roles:    []string{identity.Role()},
		TokenUse: TokenUseAccess,
	}

	return ts.signClaims(claims)
}

// GenerateRefreshToken mints a long lived token carrying only the
// subject. No role claim: it is re-derived from the account on refresh.
func (ts *TokenServiceImpl) GenerateRefreshToken(subject string) (string, error) {
	if subject == "" {
		return "", goerrors.New("subject is required", goerrors.CategoryBadInput)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.refreshTTL)),
		},
		TokenUse: TokenUseRefresh,
	}

	return ts.signClaims(claims)
}

func (ts *TokenServiceImpl) signClaims(claims *JWTClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies a token string, returning structured
// claims. Expired, malformed, and bad signature failures are distinct
// error values.
func (ts *TokenServiceImpl) Validate(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Warn("token validate encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// ExtractSubject reads the subject from a verified token. It fails the
// same way Validate does when the token is not well formed.
func (ts *TokenServiceImpl) ExtractSubject(tokenString string) (string, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject(), nil
}

// ExtractClaim reads a single named claim from a verified token.
func (ts *TokenServiceImpl) ExtractClaim(tokenString, name string) (any, error) {
	mapClaims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, mapClaims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}

	return mapClaims[name], nil
}

// IsTokenExpired reports whether a token parses but is past its expiry.
// Tokens that fail for other reasons report false, the caller surfaces
// the structural failure when it tries to use them.
func (ts *TokenServiceImpl) IsTokenExpired(tokenString string) bool {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return errors.Is(err, ErrTokenExpired)
	}
	return !claims.Expires().After(ts.now())
}

var _ TokenService = (*TokenServiceImpl)(nil)
