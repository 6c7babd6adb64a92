package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brandcert/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
	keyPrefix            = "brandcert:"
)

// Cache is a small JSON cache used for read-heavy lookups (brand profiles,
// match results, public certificate verification, security summaries).
// Implementations must treat a miss as (false, nil), not an error.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the key existed
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set marshals value as JSON and stores it with the given TTL
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key under the given prefix
	DeletePrefix(ctx context.Context, prefix string) error

	// Close releases any resources held by the cache
	Close() error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisCacheOption is a functional option for configuring the cache
type RedisCacheOption func(*RedisCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

// NewRedisCache creates a new Redis-backed cache
func NewRedisCache(cfg config.RedisConfig, opts ...RedisCacheOption) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisCacheWithClient(client *redis.Client, opts ...RedisCacheOption) *RedisCache {
	cache := &RedisCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// cacheKey namespaces keys so the cache can share a Redis DB with the
// token blacklist
func (c *RedisCache) cacheKey(key string) string {
	return keyPrefix + key
}

// Get retrieves a value from cache and unmarshals it into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	cacheKey := c.cacheKey(key)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		// Cache miss
		c.logger.Debug("Cache miss", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		c.logger.Error("Failed to get value from cache",
			zap.String("key", key),
			zap.Error(err))
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("Failed to unmarshal cached value",
			zap.String("key", key),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return true, nil
}

// Set stores a value in cache with a TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if value == nil {
		return nil
	}

	cacheKey := c.cacheKey(key)

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("Failed to marshal value for cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set value in cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to set in cache: %w", err)
	}

	c.logger.Debug("Cached value",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	cacheKey := c.cacheKey(key)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete key from cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to delete from cache: %w", err)
	}

	c.logger.Debug("Deleted key from cache", zap.String("key", key))
	return nil
}

// DeletePrefix removes every key under the given prefix.
// Uses SCAN to avoid blocking Redis with the KEYS command.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := c.cacheKey(prefix) + "*"
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan cache keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete cache keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Invalidated cache prefix",
		zap.String("prefix", prefix),
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
