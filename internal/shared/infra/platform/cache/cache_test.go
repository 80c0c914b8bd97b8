package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute, "relay:")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "tpl", "<p>hola</p>", 0))
	assert.True(t, mr.Exists("relay:tpl"), "la clave debe llevar el prefijo")

	var got string
	hit, err := c.Get(ctx, "tpl", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<p>hola</p>", got)

	require.NoError(t, c.Delete(ctx, "tpl"))
	hit, err = c.Get(ctx, "tpl", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Expiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute, "")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Second))
	mr.FastForward(11 * time.Second)

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 0)
	defer c.Stop()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit, "expirado debe tratarse como miss")

	c.evictExpired()
	assert.Empty(t, c.store)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string, interface{}) (bool, error) {
	return false, errors.New("boom")
}
func (failingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("boom")
}
func (failingCache) Delete(context.Context, string) error { return nil }

func TestHelpers_WarnOnFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)
	ctx := context.Background()

	var dest string
	assert.False(t, GetOrWarn(ctx, failingCache{}, "k", &dest, log))
	SetOrWarn(ctx, failingCache{}, "k", "v", time.Second, log)
	assert.Equal(t, 2, logs.Len())

	// Sin caché configurada no hay nada que hacer.
	assert.False(t, GetOrWarn(ctx, nil, "k", &dest, log))
	SetOrWarn(ctx, nil, "k", "v", time.Second, log)
	assert.Equal(t, 2, logs.Len())
}
