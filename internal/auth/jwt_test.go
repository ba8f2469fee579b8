package auth_test

import (
	"testing"
	"time"

	"restaurant-management-backend/internal/auth"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	token, err := auth.GenerateToken(secret, userID, "owner@dosapalace.in", "ADMIN", true, false, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %v, want %v", claims.UserID, userID)
	}
	if claims.Email != "owner@dosapalace.in" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role = %q, want ADMIN", claims.Role)
	}
	if !claims.IsActive || claims.IsBanned {
		t.Errorf("flags = active:%v banned:%v, want active and not banned", claims.IsActive, claims.IsBanned)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("secret-a", uuid.New(), "a@b.c", "USER", true, false, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := auth.ValidateToken("secret-b", token); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := auth.GenerateToken("secret", uuid.New(), "a@b.c", "USER", true, false, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := auth.ValidateToken("secret", token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := auth.ValidateToken("secret", "not.a.token"); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}
