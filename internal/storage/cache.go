package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by Get when no result is stored for a payload.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache stores encoded results keyed by the payload they came from.
type ResultCache interface {
	Get(ctx context.Context, payload []byte) ([]byte, error)
	Set(ctx context.Context, payload, result []byte) error
}

// RedisOptions configures the redis connection.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache is a ResultCache backed by redis. Results are deterministic
// for a given payload, so they only expire to bound memory.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewRedisCache connects to redis. A failed ping is logged, not fatal; the
// cache then misses until the server comes up.
func NewRedisCache(opts RedisOptions, log logrus.FieldLogger) *RedisCache {
	log.Infof("Connecting to Redis at %s...", opts.Address)

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Errorf("Failed to connect to Redis: %v", err)
	} else {
		log.Info("Successfully connected to Redis")
	}

	return NewRedisCacheWithClient(client, opts.TTL, log)
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached result for payload or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, payload []byte) ([]byte, error) {
	key := CacheKey(payload)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	c.log.WithField("key", key).Debug("Cache hit")
	return val, nil
}

// Set stores result for payload.
func (c *RedisCache) Set(ctx context.Context, payload, result []byte) error {
	key := CacheKey(payload)
	if err := c.client.Set(ctx, key, result, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Close closes the redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CacheKey derives the redis key for a payload.
func CacheKey(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "dice:result:" + hex.EncodeToString(sum[:])
}
