package tokens

import (
	"strings"
	"testing"
	"time"
)

func TestURLSafeSignVerify(t *testing.T) {
	signer := NewURLSafeSigner(testSecret, time.Hour)

	tests := []struct {
		name    string
		email   string
		purpose string
	}{
		{"verification token", "alice@example.com", PurposeEmailVerification},
		{"reset token", "bob@example.com", PurposePasswordReset},
		{"email with plus", "alice+tag@example.com", PurposeEmailVerification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signer.Sign(tt.email, tt.purpose)

			email, ok := signer.Verify(token, tt.purpose)
			if !ok {
				t.Fatal("Verify rejected a freshly signed token")
			}
			if email != tt.email {
				t.Errorf("Verify email = %q, want %q", email, tt.email)
			}
		})
	}
}

func TestURLSafeWrongPurpose(t *testing.T) {
	signer := NewURLSafeSigner(testSecret, time.Hour)

	token := signer.Sign("alice@example.com", PurposeEmailVerification)
	if _, ok := signer.Verify(token, PurposePasswordReset); ok {
		t.Error("Verification token accepted as a reset token")
	}
}

func TestURLSafeWrongSecret(t *testing.T) {
	signer := NewURLSafeSigner(testSecret, time.Hour)
	other := NewURLSafeSigner("a-completely-different-secret-key", time.Hour)

	token := signer.Sign("alice@example.com", PurposePasswordReset)
	if _, ok := other.Verify(token, PurposePasswordReset); ok {
		t.Error("Token verified under a different secret")
	}
}

func TestURLSafeTampered(t *testing.T) {
	signer := NewURLSafeSigner(testSecret, time.Hour)
	token := signer.Sign("alice@example.com", PurposePasswordReset)

	tests := []struct {
		name  string
		token string
	}{
		{"tampered payload", tamper(token)},
		{"missing segment", strings.Join(strings.Split(token, ".")[:2], ".")},
		{"not base64", "!!!.!!!.!!!"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := signer.Verify(tt.token, PurposePasswordReset); ok {
				t.Error("Verify accepted a corrupted token")
			}
		})
	}
}

func TestURLSafeExpiry(t *testing.T) {
	signer := NewURLSafeSigner(testSecret, time.Hour)

	stale := signer.signAt("alice@example.com", PurposePasswordReset, time.Now().Add(-2*time.Hour))
	if _, ok := signer.Verify(stale, PurposePasswordReset); ok {
		t.Error("Verify accepted a token older than maxAge")
	}

	fresh := signer.signAt("alice@example.com", PurposePasswordReset, time.Now().Add(-30*time.Minute))
	if _, ok := signer.Verify(fresh, PurposePasswordReset); !ok {
		t.Error("Verify rejected a token within maxAge")
	}
}
