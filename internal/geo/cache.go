package geo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps lookup results in Redis for a bounded time. Geolocation
// data for a given address changes rarely, so a short TTL trades
// freshness for far fewer upstream calls.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(ip string) string {
	return "geo:" + ip
}

// Get returns a cached location for ip, if present.
func (c *Cache) Get(ctx context.Context, ip string) (*Location, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(ip)).Bytes()
	if err != nil {
		return nil, false
	}
	var loc Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, false
	}
	return &loc, true
}

// Set stores a location, best effort. A failed write only costs an
// extra upstream call later.
func (c *Cache) Set(ctx context.Context, ip string, loc *Location) {
	if c == nil || c.client == nil || loc == nil {
		return
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(ip), data, c.ttl).Err()
}
