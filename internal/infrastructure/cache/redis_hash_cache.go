package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultApprovalHashKey is the redis key of the cached approval hash
const DefaultApprovalHashKey = "labcore:settings:approval_secret_hash"

// RedisHashCache implements HashCache on Redis so every station sees the
// same hash right after a reconfiguration
type RedisHashCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisHashCache connects and pings Redis
func NewRedisHashCache(cfg RedisConfig) (*RedisHashCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisHashCacheWithClient(client, "", cfg.TTL), nil
}

// NewRedisHashCacheWithClient creates a cache over an existing client.
// An empty key uses DefaultApprovalHashKey.
func NewRedisHashCacheWithClient(client *redis.Client, key string, ttl time.Duration) *RedisHashCache {
	if key == "" {
		key = DefaultApprovalHashKey
	}
	return &RedisHashCache{client: client, key: key, ttl: ttl}
}

// Get returns the cached hash
func (c *RedisHashCache) Get(ctx context.Context) (string, bool, error) {
	hash, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read approval hash: %w", err)
	}
	return hash, true, nil
}

// Set stores the hash with the configured TTL
func (c *RedisHashCache) Set(ctx context.Context, hash string) error {
	if err := c.client.Set(ctx, c.key, hash, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache approval hash: %w", err)
	}
	return nil
}

// Invalidate deletes the cached hash
func (c *RedisHashCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate approval hash: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisHashCache) Close() error {
	return c.client.Close()
}

var _ HashCache = (*RedisHashCache)(nil)
