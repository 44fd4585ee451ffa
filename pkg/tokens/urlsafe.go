package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"log/slog"
	"strings"
	"time"
)

// Purpose salts keep verification and reset tokens from being swapped for
// one another even though both are signed with the same secret.
const (
	PurposeEmailVerification = "email-verification"
	PurposePasswordReset     = "password-reset"
)

// DefaultURLSafeMaxAge bounds how long a verification or reset link stays
// usable.
const DefaultURLSafeMaxAge = 24 * time.Hour

// URLSafeSigner issues compact single-purpose tokens suitable for embedding
// in links: base64url(email).base64url(timestamp).base64url(hmac). This is
// a deliberately different mechanism from session tokens; the payload is a
// bare email, not a claims document.
type URLSafeSigner struct {
	secret []byte
	maxAge time.Duration
}

func NewURLSafeSigner(secret string, maxAge time.Duration) *URLSafeSigner {
	if maxAge <= 0 {
		maxAge = DefaultURLSafeMaxAge
	}
	return &URLSafeSigner{secret: []byte(secret), maxAge: maxAge}
}

// Sign produces a token binding email to purpose at the current time.
func (s *URLSafeSigner) Sign(email, purpose string) string {
	return s.signAt(email, purpose, time.Now())
}

func (s *URLSafeSigner) signAt(email, purpose string, at time.Time) string {
	enc := base64.RawURLEncoding
	payload := enc.EncodeToString([]byte(email))

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(at.Unix()))
	stamp := enc.EncodeToString(ts[:])

	sig := enc.EncodeToString(s.mac(purpose, payload, stamp))
	return payload + "." + stamp + "." + sig
}

// Verify checks the signature and age of token for the given purpose and
// returns the embedded email. Malformed, mis-signed, wrong-purpose, and
// stale tokens all report ok=false; the caller decides which error kind
// that becomes.
func (s *URLSafeSigner) Verify(token, purpose string) (email string, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}

	enc := base64.RawURLEncoding
	sig, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", false
	}
	if !hmac.Equal(sig, s.mac(purpose, parts[0], parts[1])) {
		slog.Warn("url-safe token signature mismatch", slog.String("purpose", purpose))
		return "", false
	}

	tsBytes, err := enc.DecodeString(parts[1])
	if err != nil || len(tsBytes) != 8 {
		return "", false
	}
	issued := time.Unix(int64(binary.BigEndian.Uint64(tsBytes)), 0)
	if time.Since(issued) > s.maxAge {
		return "", false
	}

	payload, err := enc.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	return string(payload), true
}

func (s *URLSafeSigner) mac(purpose, payload, stamp string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(purpose))
	h.Write([]byte("."))
	h.Write([]byte(payload))
	h.Write([]byte("."))
	h.Write([]byte(stamp))
	return h.Sum(nil)
}
