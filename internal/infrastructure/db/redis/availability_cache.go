package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookline/booking-system/internal/core/ports"
)

const (
	availabilityKeyPrefix = "availability:"
	defaultViewTTL        = 5 * time.Minute
)

// AvailabilityCache stores computed per-date availability views in Redis.
// Key format: availability:<YYYY-MM-DD>
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache creates an AvailabilityCache wrapping the given Redis
// client. A non-positive ttl falls back to the default.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = defaultViewTTL
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

// Get returns the cached view for date, or nil when absent.
func (c *AvailabilityCache) Get(ctx context.Context, date string) (*ports.DayAvailability, error) {
	payload, err := c.client.Get(ctx, c.key(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("availability cache get: %w", err)
	}

	var view ports.DayAvailability
	if err := json.Unmarshal(payload, &view); err != nil {
		// A corrupt entry is treated as a miss; it will be rewritten.
		return nil, nil
	}
	return &view, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, date string, view *ports.DayAvailability) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("availability cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.key(date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("availability cache set: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) InvalidateDate(ctx context.Context, date string) error {
	if err := c.client.Del(ctx, c.key(date)).Err(); err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(date string) string {
	return availabilityKeyPrefix + date
}
