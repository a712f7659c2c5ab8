package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/geotrace/geotrace/internal/auth"
	"github.com/geotrace/geotrace/internal/geo"
	"github.com/geotrace/geotrace/internal/health"
	"github.com/geotrace/geotrace/internal/history"
	"github.com/geotrace/geotrace/internal/observability"
	"github.com/geotrace/geotrace/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthGate       *auth.Gate
	AuthHandler    *auth.Handler
	GeoHandler     *geo.Handler
	HistoryHandler *history.Handler
	HealthHandler  *health.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with geotrace defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/health-check", params.HealthHandler.MountRoutes)
		r.Route("/login", params.AuthHandler.MountRoutes)

		// Everything below requires a verified session token. That
		// includes the jobs surface: the prune trigger mutates every
		// user's history queue.
		r.Group(func(r chi.Router) {
			r.Use(params.AuthGate.RequireAuth)
			r.Route("/geolocation", params.GeoHandler.MountRoutes)
			r.Route("/history", params.HistoryHandler.MountRoutes)
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
