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

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "a", Count: 2}, 0))

	var got payload
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, 5*time.Second))
	require.NoError(t, c.Set(ctx, "forever", 1, -1))

	assert.Equal(t, 5*time.Second, mr.TTL("short"))
	assert.Equal(t, time.Duration(0), mr.TTL("forever"))

	mr.FastForward(6 * time.Second)

	var v int
	assert.ErrorIs(t, c.Get(ctx, "short", &v), ErrMiss)
	assert.NoError(t, c.Get(ctx, "forever", &v))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	var v payload
	assert.ErrorIs(t, c.Get(context.Background(), "absent", &v), ErrMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))

	// deleting a missing key is not an error
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestRedisCache_DecodeError(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("bad", "not json"))

	var v payload
	err := c.Get(context.Background(), "bad", &v)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, c.Ping(ctx))
	assert.Error(t, c.Set(ctx, "k", 1, 0))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "tasks:u1", TasksKey("u1"))
	assert.Equal(t, "kv:u1:theme", UserKey("u1", "theme"))
}
