package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/geotrace/geotrace/internal/platform/httpx"
	"github.com/geotrace/geotrace/internal/shared"
)

// tokenExtractor returns a candidate token from a request, if present.
type tokenExtractor func(*http.Request) (string, bool)

func fromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func fromAuthorizationHeader(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return "", false
	}
	return token, true
}

// tokenSources is tried in order: cookie first, then bearer header.
var tokenSources = []tokenExtractor{fromCookie, fromAuthorizationHeader}

// ExtractToken returns the first candidate token among the known sources.
func ExtractToken(r *http.Request) (string, bool) {
	for _, source := range tokenSources {
		if token, ok := source(r); ok {
			return token, true
		}
	}
	return "", false
}

// Gate rejects requests that do not carry a valid session token and
// attaches the resolved identity to the request context for handlers
// downstream. Verification is per request; nothing is cached or retried.
type Gate struct {
	logger *slog.Logger
	tokens *TokenService
}

// NewGate constructs a Gate.
func NewGate(logger *slog.Logger, tokens *TokenService) *Gate {
	return &Gate{logger: logger, tokens: tokens}
}

// RequireAuth is the middleware guarding protected routes.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ExtractToken(r)
		if !ok {
			httpx.Fail(w, http.StatusUnauthorized, "No token provided")
			return
		}
		claims, err := g.tokens.Verify(token)
		if err != nil {
			if g.logger != nil {
				g.logger.Debug("token rejected", slog.String("path", r.URL.Path))
			}
			httpx.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
