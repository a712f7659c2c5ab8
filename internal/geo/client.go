// Package geo proxies IP geolocation lookups to the ipinfo.io service.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location is the lookup service's response shape. Loc is the combined
// "lat,lng" coordinate string.
type Location struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
	Loc      string `json:"loc,omitempty"`
	Org      string `json:"org,omitempty"`
	Postal   string `json:"postal,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Client calls the geolocation lookup API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client with a hard request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches geolocation data for ip. An empty ip asks the service
// for the caller's own public address. Failures are final; nothing is
// retried.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	url := c.baseURL + "/geo"
	if ip != "" {
		url = c.baseURL + "/" + ip + "/geo"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("geo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo: lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo: lookup %q: unexpected status %d", ip, resp.StatusCode)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, fmt.Errorf("geo: decode response: %w", err)
	}
	return &loc, nil
}
