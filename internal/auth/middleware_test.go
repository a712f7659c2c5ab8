package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geotrace/geotrace/internal/auth"
	"github.com/geotrace/geotrace/internal/shared"
	_ "github.com/geotrace/geotrace/testing"
)

func TestExtractTokenPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	token, ok := auth.ExtractToken(req)
	if !ok || token != "cookie-token" {
		t.Fatalf("expected cookie token, got %q (ok=%v)", token, ok)
	}
}

func TestExtractTokenFallsBackToBearerHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	token, ok := auth.ExtractToken(req)
	if !ok || token != "header-token" {
		t.Fatalf("expected header token, got %q (ok=%v)", token, ok)
	}
}

func TestExtractTokenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := auth.ExtractToken(req); ok {
		t.Fatalf("expected no token")
	}

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, ok := auth.ExtractToken(req); ok {
		t.Fatalf("expected no token for non-bearer scheme")
	}
}

func TestRequireAuthNoToken(t *testing.T) {
	tokens, err := auth.NewTokenService("unit-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	gate := auth.NewGate(nil, tokens)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not run")
	})

	rr := httptest.NewRecorder()
	gate.RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No token provided") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	tokens, err := auth.NewTokenService("unit-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	gate := auth.NewGate(nil, tokens)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-jwt"})

	rr := httptest.NewRecorder()
	gate.RequireAuth(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Invalid or expired token") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	tokens, err := auth.NewTokenService("unit-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	gate := auth.NewGate(nil, tokens)

	token, err := tokens.Issue("user-42", "user@test.local")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got shared.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := shared.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("expected identity in context")
		}
		got = ident
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})

	rr := httptest.NewRecorder()
	gate.RequireAuth(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got.UserID != "user-42" || got.Email != "user@test.local" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}
