// Package errs defines the request-local error kinds shared by the auth
// guards, the service layer, and the HTTP handlers. Every kind maps to a
// stable HTTP status and machine-readable code; anything unrecognized is
// surfaced as a generic 500.
package errs

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidToken           = errors.New("token is invalid")
	ErrRevokedToken           = errors.New("token has been revoked")
	ErrTokenExpired           = errors.New("token has expired")
	ErrAccessTokenRequired    = errors.New("access token required, not refresh token")
	ErrRefreshTokenRequired   = errors.New("refresh token required, not access token")
	ErrInsufficientPermission = errors.New("insufficient permission to access this resource")

	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	ErrBookNotFound   = errors.New("book not found")
	ErrReviewNotFound = errors.New("review not found")

	// ErrValidation wraps request-payload problems detected past the
	// decode stage.
	ErrValidation = errors.New("validation failed")

	// ErrBlocklistUnavailable marks a revocation-store infrastructure
	// fault. It is retryable and must not be reported as InvalidToken.
	ErrBlocklistUnavailable = errors.New("token blocklist unavailable")
)

type mapping struct {
	status int
	code   string
}

var kinds = []struct {
	err error
	mapping
}{
	{ErrInvalidToken, mapping{http.StatusUnauthorized, "INVALID_TOKEN"}},
	{ErrRevokedToken, mapping{http.StatusUnauthorized, "REVOKED_TOKEN"}},
	{ErrTokenExpired, mapping{http.StatusUnauthorized, "TOKEN_EXPIRED"}},
	{ErrAccessTokenRequired, mapping{http.StatusUnauthorized, "ACCESS_TOKEN_REQUIRED"}},
	{ErrRefreshTokenRequired, mapping{http.StatusUnauthorized, "REFRESH_TOKEN_REQUIRED"}},
	{ErrInsufficientPermission, mapping{http.StatusForbidden, "INSUFFICIENT_PERMISSION"}},
	{ErrUserAlreadyExists, mapping{http.StatusConflict, "USER_ALREADY_EXISTS"}},
	{ErrInvalidCredentials, mapping{http.StatusUnauthorized, "INVALID_CREDENTIALS"}},
	{ErrUserNotFound, mapping{http.StatusNotFound, "USER_NOT_FOUND"}},
	{ErrPasswordMismatch, mapping{http.StatusBadRequest, "PASSWORD_MISMATCH"}},
	{ErrValidation, mapping{http.StatusBadRequest, "VALIDATION_FAILED"}},
	{ErrBookNotFound, mapping{http.StatusNotFound, "BOOK_NOT_FOUND"}},
	{ErrReviewNotFound, mapping{http.StatusNotFound, "REVIEW_NOT_FOUND"}},
	{ErrBlocklistUnavailable, mapping{http.StatusServiceUnavailable, "BLOCKLIST_UNAVAILABLE"}},
}

// Classify returns the HTTP status and error code for err. Unrecognized
// errors map to a 500 with the generic SERVER_ERROR code; callers must not
// echo their message to clients.
func Classify(err error) (status int, code string, known bool) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status, k.code, true
		}
	}
	return http.StatusInternalServerError, "SERVER_ERROR", false
}
