package auth

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, expiresIn, err := svc.GenerateAccessToken(&TokenClaims{
		UserID: "user-1",
		Email:  "a@b.c",
	})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if expiresIn != 15*60 {
		t.Errorf("expected 900s expiry, got %d", expiresIn)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@b.c" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a").GenerateAccessToken(&TokenClaims{UserID: "u"})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := NewJWTService("secret-b").ValidateAccessToken(token); err == nil {
		t.Error("expected validation failure with wrong secret")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, _, err := svc.GenerateRefreshToken("user-2")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	userID, err := svc.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if userID != "user-2" {
		t.Errorf("expected user-2, got %s", userID)
	}
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, _, err := svc.GenerateAccessToken(&TokenClaims{UserID: "user-3"})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(token); err == nil {
		t.Error("access token must not validate as refresh token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("expected password to verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); err == nil {
		t.Error("expected wrong password to fail")
	}
}
