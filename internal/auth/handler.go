package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/geotrace/geotrace/internal/platform/httpx"
	"github.com/geotrace/geotrace/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *TokenService
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenService) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleLogin)
	r.Get("/check", h.handleCheck)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    userPayload `json:"user"`
}

type checkResponse struct {
	Success       bool         `json:"success"`
	Authenticated bool         `json:"authenticated"`
	Message       string       `json:"message,omitempty"`
	User          *userPayload `json:"user,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			// Unknown accounts answer 404 rather than a blanket 401.
			// That leaks account existence; kept for compatibility with
			// the deployed frontend.
			httpx.Fail(w, http.StatusNotFound, "User not found")
		case errors.Is(err, shared.ErrInvalidCredentials):
			httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.logger.Error("login", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// The token travels only in the cookie, never in the body.
	SetSessionCookie(w, token, h.tokens.TTL())
	httpx.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		User:    userPayload{ID: user.ID.Hex(), Email: user.Email},
	})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	token, ok := ExtractToken(r)
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, checkResponse{Message: "Not authenticated"})
		return
	}
	claims, err := h.tokens.Verify(token)
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, checkResponse{Message: "Invalid or expired token"})
		return
	}
	user, err := h.service.Resolve(r.Context(), claims.UserID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("resolve user", slog.Any("error", err))
		}
		httpx.JSON(w, http.StatusUnauthorized, checkResponse{Message: "Not authenticated"})
		return
	}
	httpx.JSON(w, http.StatusOK, checkResponse{
		Success:       true,
		Authenticated: true,
		User:          &userPayload{ID: user.ID.Hex(), Email: user.Email},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Stateless tokens cannot be revoked; logout only drops the cookie.
	// A captured token keeps working until its natural expiry.
	ClearSessionCookie(w)
	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true, Message: "Logged out successfully"})
}
