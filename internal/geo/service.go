package geo

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Service resolves IP addresses to locations, caching results and
// collapsing concurrent lookups of the same address into one upstream
// call.
type Service struct {
	client *Client
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService constructs a Service.
func NewService(client *Client, cache *Cache, logger *slog.Logger) *Service {
	return &Service{client: client, cache: cache, logger: logger}
}

// Locate resolves geolocation for ip. An empty ip means the caller's
// own public address; that answer depends on who asks, so it bypasses
// the cache and the singleflight group.
func (s *Service) Locate(ctx context.Context, ip string) (*Location, error) {
	if ip == "" {
		return s.client.Lookup(ctx, "")
	}
	if loc, ok := s.cache.Get(ctx, ip); ok {
		return loc, nil
	}

	resultChan := s.group.DoChan(ip, func() (interface{}, error) {
		loc, err := s.client.Lookup(ctx, ip)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, ip, loc)
		return loc, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Location), nil
	}
}

// clientIP extracts the original caller address from proxy headers,
// falling back to the connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// XFF may contain a list; first is the original client
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return strings.TrimSpace(xr)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// isLocalIP reports whether ip points back at the server itself, in
// which case the lookup service should auto-detect the public address.
func isLocalIP(ip string) bool {
	return ip == "" ||
		ip == "::1" ||
		ip == "127.0.0.1" ||
		ip == "localhost" ||
		strings.HasPrefix(ip, "::ffff:127.")
}
