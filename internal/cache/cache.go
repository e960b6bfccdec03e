package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes computed payloads in a Store. Store failures are logged and
// the payload is computed as if the entry were missing.
type Cache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a Cache writing entries with the given ttl. A nil store
// disables caching.
func New(store Store, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// TTL returns the expiry applied to new entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Remember returns the payload stored under key, or computes, stores and
// returns it. Concurrent misses on one key share a single computation. The
// boolean reports a cache hit.
func (c *Cache) Remember(ctx context.Context, key string, compute func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if c == nil || c.store == nil {
		data, err := compute(ctx)
		return data, false, err
	}

	if data, ok := c.lookup(ctx, key); ok {
		return data, true, nil
	}

	// Shared computations ignore the cancellation of the caller that
	// happened to start them.
	shared := context.WithoutCancel(ctx)
	value, err, _ := c.group.Do(key, func() (any, error) {
		data, err := compute(shared)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(shared, key, data, c.ttl); err != nil {
			c.logger.Warn("cache write failed", "key", key, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value.([]byte), false, nil
}

func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	return data, ok
}

// RememberJSON is Remember for values encoded as JSON. An entry that fails
// to decode is recomputed.
func RememberJSON[T any](ctx context.Context, c *Cache, key string, compute func(context.Context) (T, error)) (T, bool, error) {
	encode := func(ctx context.Context) ([]byte, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	}

	var out T
	data, hit, err := c.Remember(ctx, key, encode)
	if err != nil {
		return out, false, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		if !hit {
			return out, false, err
		}
		if c != nil {
			c.logger.Warn("cache entry undecodable, recomputing", "key", key, "error", err)
		}
		value, err := compute(ctx)
		return value, false, err
	}
	return out, hit, nil
}
