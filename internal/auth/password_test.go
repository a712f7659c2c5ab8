package auth_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/geotrace/geotrace/internal/auth"
	_ "github.com/geotrace/geotrace/testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("sample123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword("sample123", hash) {
		t.Fatalf("expected hash to verify")
	}
	if auth.CheckPassword("wrongpass", hash) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHashPasswordCostMatchesExistingRecords(t *testing.T) {
	// Every seeder and fixture must hash through this helper; records in
	// the live users collection were created at cost 10.
	hash, err := auth.HashPassword("sample123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cost)
	}
}
