package redis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/memory"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"github.com/weeklydish/planner/pkg/healthcheck"
	"go.uber.org/zap"
)

type flakyCache struct {
	outbound.CacheRepository
	down  bool
	calls int
}

func (f *flakyCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.down {
		return nil, stderrors.New("connection refused")
	}
	return f.CacheRepository.Get(ctx, key)
}

func (f *flakyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.calls++
	if f.down {
		return stderrors.New("connection refused")
	}
	return f.CacheRepository.Set(ctx, key, value, ttl)
}

func TestBreakerCache(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewCacheRepository()
	defer inner.Close()

	flaky := &flakyCache{CacheRepository: inner}
	breaker := healthcheck.NewCircuitBreaker("redis", healthcheck.CircuitBreakerConfig{
		FailureThreshold: 2,
		Timeout:          time.Hour,
	})
	cache := NewBreakerCache(flaky, breaker, zap.NewNop())

	t.Run("MissIsNotAFailure", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, err := cache.Get(ctx, "absent")
			assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		}
		assert.Equal(t, healthcheck.StateClosed, breaker.GetState())
	})

	t.Run("PassThrough", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
		got, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))
	})

	t.Run("OpensAfterFailures", func(t *testing.T) {
		flaky.down = true
		_, err := cache.Get(ctx, "k")
		assert.Error(t, err)
		assert.Error(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
		assert.Equal(t, healthcheck.StateOpen, breaker.GetState())

		calls := flaky.calls
		_, err = cache.Get(ctx, "k")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		assert.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
		assert.Equal(t, calls, flaky.calls, "open circuit must not reach the backend")
	})
}
