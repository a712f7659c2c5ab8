package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/geotrace/geotrace/internal/shared"
)

// Claims carries the identity encoded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenService issues and verifies signed, time-limited session tokens.
// Tokens are self-contained: the server can verify but not revoke them,
// short of rotating the secret and invalidating every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService. An empty secret is a fatal
// configuration error, not something to paper over at request time.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue produces a signed HS256 token expiring ttl from now.
func (s *TokenService) Issue(userID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
		Email:  email,
	})
	return token.SignedString(s.secret)
}

// Verify validates the signature and expiry and returns the claims.
// Malformed, forged, and expired tokens all collapse into the same
// failure; callers only need to know the request is unauthenticated.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, shared.ErrUnauthenticated
	}
	return claims, nil
}

// TTL exposes the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
