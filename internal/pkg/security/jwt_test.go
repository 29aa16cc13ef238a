package security

import (
	"strings"
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, []string{"USER"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "USER" {
		t.Errorf("Roles = %v, want [USER]", claims.Roles)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not-a-token",
		"a.b.c",
	}
	for _, tc := range cases {
		if _, err := ValidateToken(tc); err == nil {
			t.Errorf("ValidateToken(%q) expected error", tc)
		}
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	token, err := GenerateToken(7, nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	if _, err := ValidateToken(tampered); err == nil {
		t.Error("tampered token passed validation")
	}
}

func TestExtractSignature(t *testing.T) {
	token, _ := GenerateToken(1, nil)
	sig, err := ExtractSignature(token)
	if err != nil {
		t.Fatalf("ExtractSignature: %v", err)
	}
	if sig == "" || !strings.HasSuffix(token, sig) {
		t.Errorf("signature %q is not the token suffix", sig)
	}

	if _, err := ExtractSignature("bad-token"); err == nil {
		t.Error("ExtractSignature accepted malformed token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPasswordHash("s3cret-pass", hash); err != nil {
		t.Errorf("CheckPasswordHash rejected correct password: %v", err)
	}
	if err := CheckPasswordHash("wrong", hash); err == nil {
		t.Error("CheckPasswordHash accepted wrong password")
	}
}
