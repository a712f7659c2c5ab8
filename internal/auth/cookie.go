package auth

import (
	"net/http"
	"time"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

// SetSessionCookie writes the token as an HttpOnly cookie. SameSite=None
// lets the SPA send it on cross-site API calls; browsers only honor that
// combined with Secure.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearSessionCookie expires the session cookie. The attributes must match
// the ones used at set time or some browsers keep the old cookie around.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
