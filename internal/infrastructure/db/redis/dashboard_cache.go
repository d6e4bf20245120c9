package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/govtech/attendance-system/internal/api/metrics"
	"github.com/govtech/attendance-system/internal/core/ports"
)

const defaultDashboardTTL = time.Minute

// DashboardCache stores computed dashboard views per user with a short TTL.
// Entries are invalidated on every check-in/check-out, so the TTL only bounds
// staleness across clock-driven changes (a new day starting).
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache creates a DashboardCache. A non-positive ttl falls back
// to the default.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &DashboardCache{client: client, ttl: ttl}
}

// Get returns the cached dashboard for the user, or (nil, nil) on a miss.
func (c *DashboardCache) Get(ctx context.Context, userID string) (*ports.Dashboard, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.DashboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dashboard cache get: %w", err)
	}

	var d ports.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		// stale or corrupt entry, treat as miss
		metrics.DashboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	metrics.DashboardCacheTotal.WithLabelValues("hit").Inc()
	return &d, nil
}

// Set stores the dashboard for the user.
func (c *DashboardCache) Set(ctx context.Context, userID string, d *ports.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("dashboard cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

// Invalidate drops the user's cached dashboard.
func (c *DashboardCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *DashboardCache) key(userID string) string {
	return "dashboard:" + userID
}
