package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/models"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid token", errs.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"revoked token", errs.ErrRevokedToken, http.StatusUnauthorized, "REVOKED_TOKEN"},
		{"insufficient permission", errs.ErrInsufficientPermission, http.StatusForbidden, "INSUFFICIENT_PERMISSION"},
		{"duplicate user", errs.ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"book not found", errs.ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND"},
		{"wrapped sentinel", fmt.Errorf("%w: extra detail", errs.ErrValidation), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"blocklist down", errs.ErrBlocklistUnavailable, http.StatusServiceUnavailable, "BLOCKLIST_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestWriteErrorUnknownHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused on 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SERVER_ERROR", body.Code)
	assert.Equal(t, "internal server error", body.Error)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"single forwarded", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.8"}, "10.0.0.2:1234", "203.0.113.8"},
		{"remote addr", nil, "10.0.0.2:1234", "10.0.0.2:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}
