package tokens

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenGeneratorDefaults(t *testing.T) {
	tg := NewTokenGenerator("test-secret-key-that-is-long-enough", 0, 0)

	if tg.accessTTL != 15*time.Minute {
		t.Errorf("Expected access TTL 15m, got %v", tg.accessTTL)
	}
	if tg.refreshTTL != 7*24*time.Hour {
		t.Errorf("Expected refresh TTL 7d, got %v", tg.refreshTTL)
	}
}

func TestGenerateAccessToken(t *testing.T) {
	tg := NewTokenGenerator("test-secret-key-that-is-long-enough", 15*time.Minute, 24*time.Hour)

	tests := []struct {
		name      string
		userID    string
		roles     []string
		superuser bool
	}{
		{name: "single role", userID: "user-123", roles: []string{"admin"}},
		{name: "multiple roles", userID: "user-456", roles: []string{"admin", "operator", "viewer"}},
		{name: "no roles", userID: "user-789", roles: []string{}},
		{name: "nil roles", userID: "user-nil", roles: nil},
		{name: "superuser", userID: "root-1", roles: []string{"admin"}, superuser: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tg.GenerateAccessToken(tt.userID, tt.roles, tt.superuser)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			parts := strings.Split(token, ".")
			if len(parts) != 3 {
				t.Errorf("Expected 3 JWT parts, got %d", len(parts))
			}

			claims, err := tg.ValidateAccessToken(token)
			if err != nil {
				t.Fatalf("Failed to validate token: %v", err)
			}
			if claims.UserID != tt.userID {
				t.Errorf("Expected UserID %s, got %s", tt.userID, claims.UserID)
			}
			if claims.Superuser != tt.superuser {
				t.Errorf("Expected Superuser %v, got %v", tt.superuser, claims.Superuser)
			}
			if len(claims.Roles) != len(tt.roles) {
				t.Errorf("Expected %d roles, got %d", len(tt.roles), len(claims.Roles))
			}
			if claims.Issuer != "dialdesk-records" {
				t.Errorf("Expected issuer 'dialdesk-records', got %s", claims.Issuer)
			}
		})
	}
}

func TestValidateAccessToken(t *testing.T) {
	tg := NewTokenGenerator("test-secret-key-that-is-long-enough", 15*time.Minute, 24*time.Hour)

	validToken, _ := tg.GenerateAccessToken("user-123", []string{"admin"}, false)

	tgDifferent := NewTokenGenerator("different-secret-key-that-is-long", 15*time.Minute, 24*time.Hour)
	invalidSecretToken, _ := tgDifferent.GenerateAccessToken("user-456", []string{"viewer"}, false)

	tests := []struct {
		name        string
		tokenString string
		expectError bool
	}{
		{name: "valid token", tokenString: validToken},
		{name: "invalid format", tokenString: "invalid.token.format", expectError: true},
		{name: "empty token", tokenString: "", expectError: true},
		{name: "missing parts", tokenString: "header.payload", expectError: true},
		{name: "wrong secret", tokenString: invalidSecretToken, expectError: true},
		{name: "garbage", tokenString: "this-is-not-a-jwt-token-at-all", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tg.ValidateAccessToken(tt.tokenString)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if claims == nil {
				t.Fatal("Expected claims, got nil")
			}
			if claims.UserID != "user-123" {
				t.Errorf("Expected UserID user-123, got %s", claims.UserID)
			}
		})
	}
}

func TestValidateExpiredToken(t *testing.T) {
	tg := NewTokenGenerator("test-secret-key-that-is-long-enough", 15*time.Minute, 24*time.Hour)

	claims := Claims{
		UserID: "user-expired",
		Roles:  []string{"viewer"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "dialdesk-records",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, err := token.SignedString(tg.secret)
	if err != nil {
		t.Fatalf("Failed to create expired token: %v", err)
	}

	_, err = tg.ValidateAccessToken(expiredToken)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestGenerateRefreshTokenUniqueness(t *testing.T) {
	tg := NewTokenGenerator("access-secret", 15*time.Minute, 24*time.Hour)

	tokens := make(map[string]bool)
	iterations := 100

	for i := 0; i < iterations; i++ {
		token, err := tg.GenerateRefreshToken()
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}
		if tokens[token] {
			t.Fatalf("Generated duplicate refresh token: %s", token)
		}
		if len(token) < 40 || len(token) > 50 {
			t.Errorf("Expected token length 40-50, got %d", len(token))
		}
		tokens[token] = true
	}
}
