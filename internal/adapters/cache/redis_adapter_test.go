package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyavritti/backend/internal/adapters/cache"
	"github.com/arogyavritti/backend/internal/domain/providers"
	redisclient "github.com/arogyavritti/backend/internal/infrastructure/clients/redis"
)

func newTestAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedisAdapter(redisclient.NewClientFromRedis(rdb)), mr
}

func TestRedisAdapter_SetGetDelete(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))

	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, adapter.Delete(ctx, "k"))
	_, err = adapter.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_Expiry(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "short", []byte("v"), 10))
	mr.FastForward(11 * time.Second)

	_, err := adapter.Get(ctx, "short")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_GetErrorWhenServerDown(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	mr.Close()

	_, err := adapter.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrCacheMiss)
}
