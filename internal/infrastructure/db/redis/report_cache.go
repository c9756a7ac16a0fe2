package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultReportTTL = 10 * time.Minute

// ReportCache stores rendered report bodies. Keys embed the snapshot
// version, so entries go stale by construction and only the TTL evicts them.
type ReportCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewReportCache creates a ReportCache. A non-positive ttl uses defaultReportTTL.
func NewReportCache(client redis.Cmdable, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get returns the cached body, or false on a miss.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("report cache get: %w", err)
	}
	return body, true, nil
}

// Set stores body under key. A non-positive ttl uses the cache default.
func (c *ReportCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, key, body, ttl).Err(); err != nil {
		return fmt.Errorf("report cache set: %w", err)
	}
	return nil
}
