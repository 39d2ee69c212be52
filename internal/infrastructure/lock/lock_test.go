package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLocker(t *testing.T) {
	mr, client := setupTestRedis(t)
	locker := NewRedisLocker(client, "pdv:settle:")
	ctx := context.Background()

	lease, err := locker.TryLock(ctx, "table:3", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("pdv:settle:table:3"))

	_, err = locker.TryLock(ctx, "table:3", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	other, err := locker.TryLock(ctx, "table:4", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))
	assert.False(t, mr.Exists("pdv:settle:table:3"))

	again, err := locker.TryLock(ctx, "table:3", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestRedisLockExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	locker := NewRedisLocker(client, "")
	ctx := context.Background()

	stale, err := locker.TryLock(ctx, "table:1", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := locker.TryLock(ctx, "table:1", time.Minute)
	require.NoError(t, err)

	// the expired lease must not free the new holder's key
	require.NoError(t, stale.Release(ctx))
	_, err = locker.TryLock(ctx, "table:1", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	require.NoError(t, fresh.Release(ctx))
}

func TestRedisLockerSurfacesConnectionErrors(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err = NewRedisLocker(client, "").TryLock(context.Background(), "table:1", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHeld)
}

func TestNewRedisClient(t *testing.T) {
	mr, _ := setupTestRedis(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(context.Background(), "://bad")
	assert.Error(t, err)
}

func TestLocalLocker(t *testing.T) {
	locker := NewLocalLocker()
	now := time.Now()
	locker.now = func() time.Time { return now }
	ctx := context.Background()

	stale, err := locker.TryLock(ctx, "table:1", time.Second)
	require.NoError(t, err)
	_, err = locker.TryLock(ctx, "table:1", time.Second)
	assert.ErrorIs(t, err, ErrHeld)

	now = now.Add(2 * time.Second)
	fresh, err := locker.TryLock(ctx, "table:1", time.Second)
	require.NoError(t, err)

	require.NoError(t, stale.Release(ctx))
	_, err = locker.TryLock(ctx, "table:1", time.Second)
	assert.ErrorIs(t, err, ErrHeld, "stale lease does not release a newer lock")

	require.NoError(t, fresh.Release(ctx))
	lease, err := locker.TryLock(ctx, "table:1", time.Second)
	require.NoError(t, err)
	require.NoError(t, lease.Release(ctx))
}
