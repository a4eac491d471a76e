package redis

import (
	"context"
	"errors"
	"time"

	"github.com/weeklydish/planner/internal/ports/outbound"
	"github.com/weeklydish/planner/pkg/healthcheck"
	"go.uber.org/zap"
)

// BreakerCache guards a cache with a circuit breaker. While the circuit is
// open reads miss and writes are dropped, so callers fall through to the
// database.
type BreakerCache struct {
	next    outbound.CacheRepository
	breaker *healthcheck.CircuitBreaker
	logger  *zap.Logger
}

// NewBreakerCache wraps next with breaker
func NewBreakerCache(next outbound.CacheRepository, breaker *healthcheck.CircuitBreaker, logger *zap.Logger) *BreakerCache {
	return &BreakerCache{
		next:    next,
		breaker: breaker,
		logger:  logger.Named("cache-breaker"),
	}
}

// Get treats an open circuit as a miss
func (c *BreakerCache) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.next.Get(ctx, key)
		if errors.Is(err, outbound.ErrCacheMiss) {
			return nil
		}
		return err
	})
	switch {
	case errors.Is(err, healthcheck.ErrCircuitOpen):
		return nil, outbound.ErrCacheMiss
	case err != nil:
		return nil, err
	case data == nil:
		return nil, outbound.ErrCacheMiss
	}
	return data, nil
}

// Set is a no-op while the circuit is open
func (c *BreakerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.guard(func() error { return c.next.Set(ctx, key, value, ttl) })
}

// Delete is a no-op while the circuit is open
func (c *BreakerCache) Delete(ctx context.Context, key string) error {
	return c.guard(func() error { return c.next.Delete(ctx, key) })
}

// Exists reports false while the circuit is open
func (c *BreakerCache) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := c.guard(func() error {
		var err error
		ok, err = c.next.Exists(ctx, key)
		return err
	})
	return ok, err
}

func (c *BreakerCache) guard(fn func() error) error {
	err := c.breaker.Execute(fn)
	if errors.Is(err, healthcheck.ErrCircuitOpen) {
		c.logger.Debug("Cache bypassed", zap.Error(err))
		return nil
	}
	return err
}

var _ outbound.CacheRepository = (*BreakerCache)(nil)
