package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "MODERATOR", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse issued token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	if sub, _ := claims["sub"].(string); sub != "42" {
		t.Errorf("sub = %v, want \"42\"", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "MODERATOR" {
		t.Errorf("role = %v, want MODERATOR", claims["role"])
	}
}

func TestHashSecretVerify(t *testing.T) {
	hash, err := HashSecret("4821", 4)
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if !VerifySecret(hash, "4821") {
		t.Error("correct secret rejected")
	}
	if VerifySecret(hash, "1234") {
		t.Error("wrong secret accepted")
	}
}

func TestHashRefreshRawStable(t *testing.T) {
	a := HashRefreshRaw("token")
	b := HashRefreshRaw("token")
	if a != b {
		t.Error("hash is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
	if HashRefreshRaw("other") == a {
		t.Error("distinct tokens share a hash")
	}
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
		Date  string `validate:"omitempty,eventdate"`
	}
	if err := ValidateStruct(req{Email: "a@b.edu", Date: "2026-04-01"}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
	if err := ValidateStruct(req{Email: "not-an-email"}); err == nil {
		t.Error("invalid email accepted")
	}
	if err := ValidateStruct(req{Email: "a@b.edu", Date: "01-04-2026"}); err == nil {
		t.Error("bad date layout accepted")
	}
}
