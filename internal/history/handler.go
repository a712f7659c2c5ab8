package history

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/geotrace/geotrace/internal/platform/httpx"
	"github.com/geotrace/geotrace/internal/shared"
)

// Handler wires HTTP endpoints for search history.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers history routes on the provided router.
// The auth gate already ran; every request carries an identity.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleAdd)
	r.Delete("/", h.handleDelete)
	r.Delete("/all", h.handleClear)
	r.Get("/{id}", h.handleGet)
}

type addRequest struct {
	IP       string `json:"ip" validate:"required"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

type deleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type entryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *Entry `json:"data"`
}

type listResponse struct {
	Success bool    `json:"success"`
	Data    []Entry `json:"data"`
}

type deleteResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "IP address is required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "IP address is required")
		return
	}
	entry, err := h.service.Add(r.Context(), ident, AddInput(req))
	if err != nil {
		h.logger.Error("add history", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to add history entry")
		return
	}
	httpx.JSON(w, http.StatusCreated, entryResponse{
		Success: true,
		Message: "History entry added",
		Data:    entry,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	entries, err := h.service.List(r.Context(), ident)
	if err != nil {
		h.logger.Error("list history", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Data: entries})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	entry, err := h.service.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, http.StatusNotFound, "History record not found")
		case errors.Is(err, shared.ErrForbidden):
			httpx.Fail(w, http.StatusForbidden, "Access denied")
		default:
			h.logger.Error("get history", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch history record")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, entryResponse{Success: true, Data: entry})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req deleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "IDs array is required and must not be empty")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "IDs array is required and must not be empty")
		return
	}
	count, err := h.service.Delete(r.Context(), ident, req.IDs)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			httpx.Fail(w, http.StatusBadRequest, "IDs array is required and must not be empty")
			return
		}
		h.logger.Error("delete history", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete history records")
		return
	}
	httpx.JSON(w, http.StatusOK, deleteResponse{
		Success:      true,
		Message:      fmt.Sprintf("Successfully deleted %d history record(s)", count),
		DeletedCount: count,
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	count, err := h.service.Clear(r.Context(), ident)
	if err != nil {
		h.logger.Error("clear history", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	httpx.JSON(w, http.StatusOK, deleteResponse{
		Success:      true,
		Message:      fmt.Sprintf("Successfully cleared all history (%d records)", count),
		DeletedCount: count,
	})
}
