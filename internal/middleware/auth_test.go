package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookly-project/bookly/internal/blocklist"
	"github.com/bookly-project/bookly/internal/models"
	"github.com/bookly-project/bookly/internal/repository"
	"github.com/bookly-project/bookly/internal/service"
	"github.com/bookly-project/bookly/pkg/tokens"
)

type guardFixture struct {
	mw    *AuthMiddleware
	auth  *service.AuthService
	codec *tokens.Codec
	repo  *repository.InMemoryRepository
	mr    *miniredis.Miniredis
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := repository.NewInMemoryRepository()
	codec := tokens.NewCodec("guard-test-secret", time.Hour, 7*24*time.Hour)
	links := tokens.NewURLSafeSigner("guard-test-secret", 24*time.Hour)
	auth := service.NewAuthService(repo, codec, links, blocklist.NewRedisStore(client, time.Hour), nil, "localhost:8000")

	return &guardFixture{mw: NewAuthMiddleware(auth), auth: auth, codec: codec, repo: repo, mr: mr}
}

// seedUser stores a user directly; guard tests do not exercise signup.
func (f *guardFixture) seedUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		UID:          "uid-" + email,
		Username:     email,
		Email:        email,
		Role:         role,
		PasswordHash: "irrelevant",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, f.repo.CreateUser(context.Background(), user))
	return user
}

func (f *guardFixture) accessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := f.codec.EncodeAccess(tokens.UserClaims{Email: user.Email, UserUID: user.UID, Role: user.Role})
	require.NoError(t, err)
	return token
}

func (f *guardFixture) refreshToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := f.codec.EncodeRefresh(tokens.UserClaims{Email: user.Email, UserUID: user.UID, Role: user.Role})
	require.NoError(t, err)
	return token
}

func doGuarded(handler http.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRequireTokenAccess(t *testing.T) {
	f := newGuardFixture(t)
	user := f.seedUser(t, "alice@example.com", models.RoleUser)

	var gotClaims *tokens.SessionClaims
	handler := f.mw.RequireToken(AccessToken, func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := doGuarded(handler, "Bearer "+f.accessToken(t, user))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, user.Email, gotClaims.User.Email)
	assert.Equal(t, user.UID, gotClaims.User.UserUID)
}

func TestRequireTokenRejections(t *testing.T) {
	f := newGuardFixture(t)
	user := f.seedUser(t, "alice@example.com", models.RoleUser)

	tests := []struct {
		name       string
		kind       TokenKind
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no header",
			kind:       AccessToken,
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "ACCESS_TOKEN_REQUIRED",
		},
		{
			name:       "no header refresh guard",
			kind:       RefreshToken,
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "REFRESH_TOKEN_REQUIRED",
		},
		{
			name:       "malformed header",
			kind:       AccessToken,
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "ACCESS_TOKEN_REQUIRED",
		},
		{
			name:       "garbage token",
			kind:       AccessToken,
			authHeader: "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
		{
			name:       "refresh token at access guard",
			kind:       AccessToken,
			authHeader: "Bearer " + f.refreshToken(t, user),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "ACCESS_TOKEN_REQUIRED",
		},
		{
			name:       "access token at refresh guard",
			kind:       RefreshToken,
			authHeader: "Bearer " + f.accessToken(t, user),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "REFRESH_TOKEN_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := f.mw.RequireToken(tt.kind, func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not run")
			})
			rec := doGuarded(handler, tt.authHeader)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestRequireTokenRevoked(t *testing.T) {
	f := newGuardFixture(t)
	user := f.seedUser(t, "alice@example.com", models.RoleUser)
	token := f.accessToken(t, user)

	claims, err := f.codec.Decode(token)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(context.Background(), claims.ID))

	handler := f.mw.RequireToken(AccessToken, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	})
	rec := doGuarded(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "REVOKED_TOKEN", errorCode(t, rec))
}

func TestRequireTokenBlocklistDown(t *testing.T) {
	f := newGuardFixture(t)
	user := f.seedUser(t, "alice@example.com", models.RoleUser)
	token := f.accessToken(t, user)

	f.mr.Close()

	handler := f.mw.RequireToken(AccessToken, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	})
	rec := doGuarded(handler, "Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "BLOCKLIST_UNAVAILABLE", errorCode(t, rec))
}

func TestRequireRole(t *testing.T) {
	f := newGuardFixture(t)
	admin := f.seedUser(t, "admin@example.com", models.RoleAdmin)
	member := f.seedUser(t, "member@example.com", models.RoleUser)

	adminOnly := f.mw.RequireRole(models.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		require.NotNil(t, user)
		w.WriteHeader(http.StatusOK)
	})

	rec := doGuarded(adminOnly, "Bearer "+f.accessToken(t, admin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGuarded(adminOnly, "Bearer "+f.accessToken(t, member))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSION", errorCode(t, rec))

	// Valid signature, but the account no longer exists.
	ghost := &models.User{UID: "uid-ghost", Email: "ghost@example.com", Role: models.RoleUser}
	rec = doGuarded(adminOnly, "Bearer "+f.accessToken(t, ghost))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, rec))
}

func TestRequireRoleMultipleRoles(t *testing.T) {
	f := newGuardFixture(t)
	member := f.seedUser(t, "member@example.com", models.RoleUser)

	handler := f.mw.RequireRole(models.RoleAdmin, models.RoleUser)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := doGuarded(handler, "Bearer "+f.accessToken(t, member))
	assert.Equal(t, http.StatusOK, rec.Code)
}
