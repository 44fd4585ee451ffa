// Package tokens implements the signed bearer credentials issued by the
// auth service: self-contained HS256 session tokens (access and refresh)
// and url-safe single-purpose tokens for email verification and password
// reset. Both are signed with the single process-wide secret.
package tokens

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookly-project/bookly/internal/errs"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// UserClaims is the identity payload embedded in a session token. Role is
// carried on access tokens only; refresh tokens omit it so renewal picks up
// the current role from the user record.
type UserClaims struct {
	Email   string `json:"email"`
	UserUID string `json:"user_uid"`
	Role    string `json:"role,omitempty"`
}

// SessionClaims is the wire shape of a decoded session token:
// {user: {...}, exp, jti, refresh}.
type SessionClaims struct {
	User    UserClaims `json:"user"`
	Refresh bool       `json:"refresh"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes session tokens. The secret and signing method
// are fixed at construction and read-only afterwards.
type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Codec{
		secret:     []byte(secret),
		method:     jwt.SigningMethodHS256,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL reports the configured access-token lifetime. The blocklist
// uses it as the revocation-entry TTL.
func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}

// EncodeAccess issues an access token carrying the full identity payload,
// including role, with a fresh jti.
func (c *Codec) EncodeAccess(user UserClaims) (string, error) {
	return c.encode(user, c.accessTTL, false)
}

// EncodeRefresh issues a refresh token. The role claim is stripped.
func (c *Codec) EncodeRefresh(user UserClaims) (string, error) {
	user.Role = ""
	return c.encode(user, c.refreshTTL, true)
}

func (c *Codec) encode(user UserClaims, ttl time.Duration, refresh bool) (string, error) {
	return c.encodeAt(user, ttl, refresh, time.Now())
}

func (c *Codec) encodeAt(user UserClaims, ttl time.Duration, refresh bool, now time.Time) (string, error) {
	claims := SessionClaims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the signature and structure of a session token. Any
// failure, bad signature, malformed token, or expiry per the library clock,
// is logged and reported as ErrInvalidToken; Decode never panics through
// the call boundary.
func (c *Codec) Decode(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		slog.Warn("session token rejected", slog.String("error", err.Error()))
		return nil, errs.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errs.ErrInvalidToken
	}

	return claims, nil
}
