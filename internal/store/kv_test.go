package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisKV(t *testing.T) (*miniredis.Miniredis, *RedisKV) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisKV(client)
}

func TestRedisKV_MissAndRoundtrip(t *testing.T) {
	_, kv := setupRedisKV(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "stats")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "stats", `{"racks":40}`, time.Minute))

	val, err := kv.Get(ctx, "stats")
	require.NoError(t, err)
	assert.Equal(t, `{"racks":40}`, val)
}

func TestRedisKV_TTLExpires(t *testing.T) {
	mr, kv := setupRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "stats", "cached", 30*time.Second))

	mr.FastForward(31 * time.Second)

	_, err := kv.Get(ctx, "stats")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNoopKV(t *testing.T) {
	ctx := context.Background()
	kv := NoopKV{}

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
