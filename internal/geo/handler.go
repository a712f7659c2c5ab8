package geo

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geotrace/geotrace/internal/platform/httpx"
)

// Handler wires HTTP endpoints for geolocation lookups.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers geolocation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleCurrent)
	r.Get("/{ip}", h.handleByIP)
}

type locationResponse struct {
	Success bool      `json:"success"`
	Data    *Location `json:"data"`
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if isLocalIP(ip) {
		// Local development: ask the lookup service for our own
		// public address instead of resolving a loopback.
		ip = ""
	}
	loc, err := h.service.Locate(r.Context(), ip)
	if err != nil {
		h.logger.Error("geolocation lookup", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch geolocation")
		return
	}
	httpx.JSON(w, http.StatusOK, locationResponse{Success: true, Data: loc})
}

func (h *Handler) handleByIP(w http.ResponseWriter, r *http.Request) {
	ip := chi.URLParam(r, "ip")
	if ip == "" {
		httpx.Fail(w, http.StatusBadRequest, "IP address is required")
		return
	}
	loc, err := h.service.Locate(r.Context(), ip)
	if err != nil {
		h.logger.Error("geolocation lookup", slog.Any("error", err), slog.String("ip", ip))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch geolocation for specified IP")
		return
	}
	httpx.JSON(w, http.StatusOK, locationResponse{Success: true, Data: loc})
}
