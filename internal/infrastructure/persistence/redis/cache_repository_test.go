package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weeklydish/planner/internal/infrastructure/config"
	"go.uber.org/zap"
)

func TestKeyPrefix(t *testing.T) {
	repo := NewCacheRepository(nil, "weeklydish:", zap.NewNop())
	assert.Equal(t, "weeklydish:recipes:list", repo.key("recipes:list"))
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 100 * time.Millisecond,
	}

	client, err := NewClient(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestCacheRepository_PropagatesConnectionErrors(t *testing.T) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := NewCacheRepository(client, "t:", zap.NewNop())
	ctx := context.Background()

	_, err := repo.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, repo.Set(ctx, "k", []byte("v"), time.Second))
	_, err = repo.Exists(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, repo.Ping(ctx))
}
