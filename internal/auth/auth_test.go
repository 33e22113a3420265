package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aldervall/takkalkyl/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParse_ValidToken(t *testing.T) {
	parser := NewParser(testSecret)
	userID := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    "SALES",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	principal, err := parser.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if principal.UserID != userID {
		t.Errorf("userID = %s, want %s", principal.UserID, userID)
	}
	if principal.Role != model.RoleSales {
		t.Errorf("role = %s, want SALES", principal.Role)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	parser := NewParser(testSecret)
	token := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": uuid.New().String(),
		"role":    "SALES",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	if _, err := parser.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_ExpiredToken(t *testing.T) {
	parser := NewParser(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"role":    "ADMIN",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := parser.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_UnknownRole(t *testing.T) {
	parser := NewParser(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"role":    "DRIVER",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	if _, err := parser.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_BadUserID(t *testing.T) {
	parser := NewParser(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"role":    "SALES",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	if _, err := parser.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
