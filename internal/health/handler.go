// Package health exposes the liveness endpoint.
package health

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/geotrace/geotrace/internal/platform/httpx"
)

// Handler answers liveness checks.
type Handler struct {
	startedAt time.Time
}

// NewHandler constructs a Handler, recording process start time.
func NewHandler() *Handler {
	return &Handler{startedAt: time.Now()}
}

// MountRoutes registers the health route on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleCheck)
}

type healthResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, healthResponse{
		Status:    "success",
		Message:   "Server is healthy.",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startedAt).Seconds(),
	})
}
