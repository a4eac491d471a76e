// Package redis provides the Redis backed catalog cache
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/weeklydish/planner/internal/infrastructure/config"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// NewClient creates a Redis client and verifies it with a ping
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:           []string{cfg.Addr()},
		Password:        cfg.Password,
		DB:              cfg.Database,
		MaxRetries:      cfg.MaxRetries,
		PoolSize:        cfg.PoolSize,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: 5 * time.Minute,
		PoolTimeout:     10 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized successfully",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.Database),
	)
	return client, nil
}

// CacheRepository implements outbound.CacheRepository on Redis
type CacheRepository struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewCacheRepository wraps client; every key is stored under prefix
func NewCacheRepository(client redis.UniversalClient, prefix string, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis-cache"),
	}
}

func (r *CacheRepository) key(k string) string {
	return r.prefix + k
}

// Get returns outbound.ErrCacheMiss for absent keys
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrCacheMiss
	}
	if err != nil {
		r.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// Set stores a value with TTL; a non-positive ttl keeps the key for a day
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping reports whether the server answers
func (r *CacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)
