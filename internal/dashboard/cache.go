package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "dashboard:version"

// Cache wraps Redis read-through caching with a global version that every write
// bumps. A nil *Cache or nil client disables caching. Redis failures never fail a
// read: they are logged and the caller computes directly.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	// pending is set while a bump could not reach Redis. Cached entries are not
	// served again until a later bump succeeds.
	pending atomic.Bool
}

// NewCache instantiates the cache helper. logger defaults to slog.Default.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// First writer wins when several instances initialise together.
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, cacheVersionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes the cache key with the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if !c.enabled() {
		return joined, nil
	}
	if c.pending.Load() {
		if err := c.Bump(ctx); err != nil {
			return "", fmt.Errorf("dashboard: pending invalidation: %w", err)
		}
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON loads a cached value into dest or populates it using loader. Cache read
// and write errors are logged and the loaded value is returned regardless.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("dashboard: cache loader required")
	}
	if c.enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if err := json.Unmarshal(payload, dest); err == nil {
				return nil
			}
			c.logger.Warn("dashboard cache entry unreadable", slog.String("key", key))
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("dashboard cache read failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("dashboard cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached entry by moving to a new version. On failure the
// invalidation stays pending and cached entries are bypassed until it succeeds.
func (c *Cache) Bump(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Incr(ctx, cacheVersionKey).Err(); err != nil {
		c.pending.Store(true)
		return fmt.Errorf("dashboard: bump cache version: %w", err)
	}
	c.pending.Store(false)
	return nil
}

// Invalidate bumps the version after a write. A failure is logged and left pending.
func (c *Cache) Invalidate(ctx context.Context) {
	if err := c.Bump(ctx); err != nil {
		c.logger.Warn("dashboard cache invalidation failed", slog.Any("error", err))
	}
}
