package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/redis/go-redis/v9"
)

// Cache stores rendered job documents in Redis. Write failures are logged and
// swallowed; the job store stays the source of truth.
type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetJobDetails(ctx context.Context, name string) ([]byte, error) {
	val, err := c.client.Get(ctx, jobKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) GetEtagJobDetails(ctx context.Context, name string) (string, error) {
	val, err := c.client.Get(ctx, etagKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) SetJobDetails(ctx context.Context, name string, data []byte, validUntil time.Time) {
	ttl := time.Until(validUntil)
	if ttl <= 0 {
		return
	}
	logger.Debugf(ctx, "caching job %q until %s...", name, validUntil.Format(time.RFC1123))
	if err := c.client.Set(ctx, jobKey(name), data, ttl).Err(); err != nil {
		logger.Warnf(ctx, "could not cache job %q: %v", name, err)
	}
}

func (c *Cache) SetEtagJobDetails(ctx context.Context, name string, etag string, validUntil time.Time) {
	ttl := time.Until(validUntil)
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, etagKey(name), etag, ttl).Err(); err != nil {
		logger.Warnf(ctx, "could not cache etag of job %q: %v", name, err)
	}
}

func (c *Cache) DeleteJobDetails(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, jobKey(name)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (c *Cache) DeleteEtagJobDetails(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, etagKey(name)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func jobKey(name string) string {
	return "job:" + name
}

func etagKey(name string) string {
	return "job:" + name + ":etag"
}
