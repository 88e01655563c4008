package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), "redis://"+addr)
	assert.Error(t, err)
}

func TestLimiter_Allow(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()
	l := NewLimiter(rdb, 3, 10*time.Minute)

	for i := range 3 {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should be allowed", i+1)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "fourth hit should be refused")

	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted independently")

	assert.Equal(t, 10*time.Minute, mr.TTL("ratelimit:10.0.0.1"))

	mr.FastForward(10*time.Minute + time.Second)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "window should reset after expiry")
}

func TestLimiter_KeyWithoutTTL(t *testing.T) {
	mr, rdb := newTestClient(t)
	require.NoError(t, mr.Set("ratelimit:10.0.0.3", "5"))
	require.Zero(t, mr.TTL("ratelimit:10.0.0.3"))

	ok, err := NewLimiter(rdb, 3, time.Minute).Allow(context.Background(), "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("ratelimit:10.0.0.3"), "a stuck counter gets a window")
	mr.FastForward(time.Minute + time.Second)
	assert.False(t, mr.Exists("ratelimit:10.0.0.3"))
}

func TestLimiter_WindowNotExtended(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()
	l := NewLimiter(rdb, 5, time.Minute)

	_, err := l.Allow(ctx, "10.0.0.4")
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)
	_, err = l.Allow(ctx, "10.0.0.4")
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, mr.TTL("ratelimit:10.0.0.4"), "later hits keep the first expiry")
}

func TestLimiter_StoreDown(t *testing.T) {
	mr, rdb := newTestClient(t)
	mr.Close()

	_, err := NewLimiter(rdb, 3, time.Minute).Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestRevocations(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()
	r := NewRevocations(rdb)

	revoked, err := r.IsRevoked(ctx, "tid-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "tid-1", time.Now().Add(time.Hour)))
	revoked, err = r.IsRevoked(ctx, "tid-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = r.IsRevoked(ctx, "tid-1")
	require.NoError(t, err)
	assert.False(t, revoked, "revocation should expire with the token")
}

func TestRevocations_AlreadyExpired(t *testing.T) {
	mr, rdb := newTestClient(t)
	r := NewRevocations(rdb)

	require.NoError(t, r.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))

	assert.False(t, mr.Exists("revoked:old"))
}
