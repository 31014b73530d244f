package reports

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "reports:version"

// Cache stores rendered report PDFs in Redis behind a global version. Any
// delivery mutation bumps the version, which orphans every cached document at
// once instead of tracking per-range dependencies.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes a cache key with the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return joined + ":v" + strconv.FormatInt(ver, 10), nil
}

// FetchBytes loads a cached document or populates it using the loader.
func (c *Cache) FetchBytes(ctx context.Context, key string, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if loader == nil {
		return nil, errors.New("reports: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, err
	}
	payload, err = loader(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Bump invalidates every cached report by incrementing the global version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}
