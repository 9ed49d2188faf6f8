package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/zanvidmar/oprema/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	const secret = "round-trip-secret"

	token, err := GenerateToken(secret, 42, "mkovac", model.RoleManager)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("user_id = %d, want 42", claims.UserID)
	}
	if claims.Username != "mkovac" {
		t.Errorf("username = %q, want mkovac", claims.Username)
	}
	if claims.Role != model.RoleManager {
		t.Errorf("role = %q, want manager", claims.Role)
	}
	if claims.Issuer != tokenIssuer {
		t.Errorf("issuer = %q, want %q", claims.Issuer, tokenIssuer)
	}
	if claims.ID == "" {
		t.Error("expected a JTI for revocation tracking")
	}

	diff := time.Until(claims.ExpiresAt.Time) - TokenExpiry
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("expiry off by %v", diff)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	good, err := GenerateToken("secret-a", 1, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "secret-b", good},
		{"garbage token", "secret-a", "not-a-token"},
		{"truncated token", "secret-a", good[:len(good)/2]},
		{"stripped signature", "secret-a", good[:strings.LastIndex(good, ".")+1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.secret, tt.token); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestTokensGetDistinctJTIs(t *testing.T) {
	const secret = "jti-secret"

	first, err := GenerateToken(secret, 1, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	second, err := GenerateToken(secret, 1, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	a, err := ValidateToken(secret, first)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	b, err := ValidateToken(secret, second)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if a.ID == b.ID {
		t.Error("expected unique JTIs per token")
	}
}
