// Package cache keeps JSON values in Redis with a TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"adaptagent/internal/config"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON-encoded values.
type Cache interface {
	// Get decodes the value at key into out. It returns ErrMiss for a missing key.
	Get(ctx context.Context, key string, out any) error
	// Set stores value at key. A ttl of zero uses the default TTL; a negative ttl keeps the key forever.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// RedisCache implements Cache with go-redis.
type RedisCache struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedis creates a client for cfg. It does not dial; use Ping to check connectivity.
func NewRedis(cfg config.RedisConfig) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return New(client, cfg.DefaultTTL)
}

// New wraps an existing client.
func New(client redis.UniversalClient, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, defaultTTL: defaultTTL}
}

func (c *RedisCache) Get(ctx context.Context, key string, out any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	switch {
	case ttl == 0:
		ttl = c.defaultTTL
	case ttl < 0:
		ttl = 0
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// TasksKey is where a user's task listing is cached.
func TasksKey(userID string) string { return "tasks:" + userID }

// UserKey namespaces a user-supplied key.
func UserKey(userID, key string) string { return "kv:" + userID + ":" + key }
