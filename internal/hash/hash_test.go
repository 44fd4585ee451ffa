package hash

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func TestHashAndVerify(t *testing.T) {
	for i := 0; i < 5; i++ {
		password := gofakeit.Password(true, true, true, true, false, 20)

		hashed, err := HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword failed: %v", err)
		}
		if hashed == password {
			t.Fatal("Hash must not equal the plaintext")
		}
		if !VerifyPassword(password, hashed) {
			t.Error("VerifyPassword rejected the original password")
		}
		if VerifyPassword(password+"x", hashed) {
			t.Error("VerifyPassword accepted a wrong password")
		}
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if a == b {
		t.Error("Two hashes of the same password should differ by salt")
	}
}
