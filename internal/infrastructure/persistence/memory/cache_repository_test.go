package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weeklydish/planner/internal/ports/outbound"
)

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()
	defer cache.Close()

	now := time.Date(2025, 4, 23, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx, "recipes:list")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	value := []byte(`[{"title":"味噌汁"}]`)
	require.NoError(t, cache.Set(ctx, "recipes:list", value, time.Minute))
	value[0] = 'x'

	got, err := cache.Get(ctx, "recipes:list")
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"味噌汁"}]`, string(got))

	got[0] = 'x'
	again, err := cache.Get(ctx, "recipes:list")
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"味噌汁"}]`, string(again))

	exists, err := cache.Exists(ctx, "recipes:list")
	require.NoError(t, err)
	assert.True(t, exists)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, "recipes:list")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	exists, err = cache.Exists(ctx, "recipes:list")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, cache.Delete(ctx, "k"))
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	assert.NoError(t, cache.Close())
}
