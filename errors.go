package accounts

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is returned for an unknown email OR a password
// mismatch. The two cases are intentionally indistinguishable.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountDisabled is returned when the account exists but was soft deleted.
var ErrAccountDisabled = goerrors.New("user account is disabled", goerrors.CategoryAuth).
	WithTextCode("USER_ACCOUNT_DISABLED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is past its expiry.
var ErrTokenExpired = goerrors.New("authentication token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrRefreshTokenExpired is distinguished from the generic expiry so
// clients can tell "retry with refresh" apart from "login again".
var ErrRefreshTokenExpired = goerrors.New("refresh token is expired", goerrors.CategoryAuth).
	WithTextCode("REFRESH_TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that are structurally invalid.
var ErrTokenMalformed = goerrors.New("authentication token is malformed", goerrors.CategoryAuth).
	WithTextCode("INVALID_TOKEN").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when the signature check fails.
// Same user facing code as ErrTokenMalformed, distinct value for callers.
var ErrTokenSignatureInvalid = goerrors.New("authentication token signature is invalid", goerrors.CategoryAuth).
	WithTextCode("INVALID_TOKEN").
	WithCode(goerrors.CodeUnauthorized)

// ErrUserNotFound is returned when a referenced account no longer exists.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrDuplicateEmail is returned on a registration collision.
var ErrDuplicateEmail = goerrors.New("email already exists", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_EMAIL").
	WithCode(goerrors.CodeConflict)

// ErrDuplicateNickname is returned when the nickname is taken.
var ErrDuplicateNickname = goerrors.New("nickname already exists", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_NICKNAME").
	WithCode(goerrors.CodeConflict)

// ErrUnauthorizedAccess is the generic rejection for protected routes
// reached without a resolved principal.
var ErrUnauthorizedAccess = goerrors.New("authentication required", goerrors.CategoryAuthz).
	WithTextCode("UNAUTHORIZED_ACCESS").
	WithCode(goerrors.CodeUnauthorized)

// ErrAlreadyDeleted is returned on a repeated soft delete.
var ErrAlreadyDeleted = goerrors.New("record is already deleted", goerrors.CategoryConflict).
	WithTextCode("ALREADY_DELETED").
	WithCode(goerrors.CodeConflict)

// ErrAgencyNotFound is returned when a referenced agency does not exist.
var ErrAgencyNotFound = goerrors.New("agency not found", goerrors.CategoryNotFound).
	WithTextCode("AGENCY_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrInvalidRepresentative is returned when an agency references a
// missing or deleted representative user.
var ErrInvalidRepresentative = goerrors.New("invalid representative user", goerrors.CategoryBadInput).
	WithTextCode("INVALID_REPRESENTATIVE").
	WithCode(goerrors.CodeBadRequest)

// NewValidationError aggregates field errors into a single 400 response.
func NewValidationError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode("VALIDATION_ERROR").
		WithCode(goerrors.CodeBadRequest)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrRefreshTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
