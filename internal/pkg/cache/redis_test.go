package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFromClient(client, nil), mr
}

func TestRedisSetGetDelete(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	_, found, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.Set(ctx, "key", []byte("value"), time.Minute))

	data, found, err := r.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value"), data)

	require.NoError(t, r.Delete(ctx, "key"))
	_, found, err = r.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisEntriesExpire(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "short", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, found, err := r.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisPing(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, r.Ping(context.Background()))

	mr.Close()
	assert.Error(t, r.Ping(context.Background()))
}

func TestRedisGetErrorSurfaces(t *testing.T) {
	r, mr := newTestRedis(t)
	mr.Close()

	_, _, err := r.Get(context.Background(), "key")
	assert.Error(t, err)
}
