package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("secret", "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT("secret", token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("subject = %q, want alice", claims.Subject)
	}
	if claims.Issuer != issuer {
		t.Errorf("issuer = %q, want %q", claims.Issuer, issuer)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, _ := GenerateJWT("secret", "alice", time.Hour)
	if _, err := ParseJWT("other", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = ParseJWT("secret", token)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected 'expired' in error, got: %s", err.Error())
	}
}

func TestParseJWT_MissingSubject(t *testing.T) {
	token, _ := GenerateJWT("secret", "", time.Hour)
	if _, err := ParseJWT("secret", token); err == nil {
		t.Fatal("expected error for token without subject")
	}
}

func TestLookupAPIKey(t *testing.T) {
	keys := map[string]string{"k1": "alice", "k2": "bob"}

	tests := []struct {
		key     string
		subject string
		ok      bool
	}{
		{"k1", "alice", true},
		{"k2", "bob", true},
		{"k3", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		subject, ok := LookupAPIKey(keys, tt.key)
		if subject != tt.subject || ok != tt.ok {
			t.Errorf("LookupAPIKey(%q) = (%q, %v), want (%q, %v)", tt.key, subject, ok, tt.subject, tt.ok)
		}
	}
}
