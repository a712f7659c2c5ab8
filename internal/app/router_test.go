package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geotrace/geotrace/internal/app"
	"github.com/geotrace/geotrace/internal/auth"
	"github.com/geotrace/geotrace/internal/geo"
	"github.com/geotrace/geotrace/internal/health"
	"github.com/geotrace/geotrace/internal/history"
	"github.com/geotrace/geotrace/internal/shared"
	"github.com/geotrace/geotrace/jobs"
	_ "github.com/geotrace/geotrace/testing"
)

type stubUserRepo struct{}

func (stubUserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

func (stubUserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

type stubHistoryRepo struct{}

func (stubHistoryRepo) Create(ctx context.Context, entry *history.Entry) error { return nil }
func (stubHistoryRepo) ListByOwner(ctx context.Context, userID string, limit int64) ([]history.Entry, error) {
	return nil, nil
}
func (stubHistoryRepo) FindByID(ctx context.Context, id string) (*history.Entry, error) {
	return nil, shared.ErrNotFound
}
func (stubHistoryRepo) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	return 0, nil
}
func (stubHistoryRepo) DeleteAllByOwner(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}
func (stubHistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService("unit-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	geoService := geo.NewService(geo.NewClient("http://127.0.0.1:0", time.Second), nil, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         &app.Config{AppRequestTimeout: 5 * time.Second},
		AuthGate:       auth.NewGate(logger, tokens),
		AuthHandler:    auth.NewHandler(logger, auth.NewService(stubUserRepo{}), tokens),
		GeoHandler:     geo.NewHandler(logger, geoService),
		HistoryHandler: history.NewHandler(logger, history.NewService(stubHistoryRepo{})),
		HealthHandler:  health.NewHandler(),
		JobHandler:     jobs.NewHandler(nil, nil, time.Hour, logger),
	})
	return router, tokens
}

func TestJobsRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/jobs/history-prune"},
		{http.MethodGet, "/api/jobs/health"},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", tc.method, tc.path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "No token provided") {
			t.Fatalf("%s %s: unexpected body: %s", tc.method, tc.path, rr.Body.String())
		}
	}
}

func TestJobsHealthWithToken(t *testing.T) {
	router, tokens := newTestRouter(t)

	token, err := tokens.Issue("user-1", "user@test.local")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/health", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHealthCheckStaysPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health-check", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/geolocation", "/api/history"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected 401 without token, got %d", path, rr.Code)
		}
	}
}
