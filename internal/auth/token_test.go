package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/geotrace/geotrace/internal/auth"
	"github.com/geotrace/geotrace/internal/shared"
	_ "github.com/geotrace/geotrace/testing"
)

func TestTokenRoundTrip(t *testing.T) {
	svc, err := auth.NewTokenService("unit-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := svc.Issue("64f0c1a2b3d4e5f6a7b8c9d0", "user@test.local")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "64f0c1a2b3d4e5f6a7b8c9d0" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Email != "user@test.local" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer, err := auth.NewTokenService("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	verifier, err := auth.NewTokenService("secret-b", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := issuer.Issue("user-id", "user@test.local")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, shared.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	svc, err := auth.NewTokenService("unit-secret", -time.Minute)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := svc.Issue("user-id", "user@test.local")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, shared.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestTokenMalformedRejected(t *testing.T) {
	svc, err := auth.NewTokenService("unit-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated for %q, got %v", token, err)
		}
	}
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	if _, err := auth.NewTokenService("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
