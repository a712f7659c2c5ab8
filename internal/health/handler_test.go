package health_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/geotrace/geotrace/internal/health"
	_ "github.com/geotrace/geotrace/testing"
)

func TestHealthCheck(t *testing.T) {
	handler := health.NewHandler()
	r := chi.NewRouter()
	handler.MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"status":"success"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if !strings.Contains(body, "Server is healthy.") {
		t.Fatalf("unexpected body: %s", body)
	}
	if !strings.Contains(body, `"uptime"`) {
		t.Fatalf("expected uptime field: %s", body)
	}
}
