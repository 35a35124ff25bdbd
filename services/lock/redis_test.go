package lock

import (
	"context"
	"testing"
	"time"

	"staybook/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisLocker(t *testing.T, ttl, wait time.Duration) (*RedisRoomLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRoomLocker(client, ttl, wait, zap.NewNop()), mr
}

func TestRedisRoomLocker_Contention(t *testing.T) {
	locker, mr := newRedisLocker(t, 5*time.Second, 100*time.Millisecond)
	ctx := context.Background()
	key := utils.RoomLockPrefix + "room-1"

	release, err := locker.Lock(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 5*time.Second, mr.TTL(key))

	_, err = locker.Lock(ctx, "room-1")
	assert.ErrorIs(t, err, ErrLockTimeout)

	other, err := locker.Lock(ctx, "room-2")
	require.NoError(t, err)
	other()

	release()
	assert.False(t, mr.Exists(key))

	again, err := locker.Lock(ctx, "room-1")
	require.NoError(t, err)
	again()
}

func TestRedisRoomLocker_WaitsForRelease(t *testing.T) {
	locker, _ := newRedisLocker(t, 5*time.Second, 2*time.Second)
	ctx := context.Background()

	release, err := locker.Lock(ctx, "room-1")
	require.NoError(t, err)
	go func() {
		time.Sleep(50 * time.Millisecond)
		release()
	}()

	start := time.Now()
	second, err := locker.Lock(ctx, "room-1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	second()
}

func TestRedisRoomLocker_ReleaseChecksToken(t *testing.T) {
	locker, mr := newRedisLocker(t, time.Second, 100*time.Millisecond)
	ctx := context.Background()
	key := utils.RoomLockPrefix + "room-1"

	expired, err := locker.Lock(ctx, "room-1")
	require.NoError(t, err)
	first, err := mr.Get(key)
	require.NoError(t, err)

	// The first holder's lock runs out and another instance takes the room.
	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists(key))
	current, err := locker.Lock(ctx, "room-1")
	require.NoError(t, err)
	holder, err := mr.Get(key)
	require.NoError(t, err)
	require.NotEqual(t, first, holder)

	expired()
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, holder, got)

	require.NoError(t, mr.Set(key, "foreign-token"))
	current()
	got, err = mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "foreign-token", got)

	mr.Del(key)
	release, err := locker.Lock(ctx, "room-1")
	require.NoError(t, err)
	release()
	assert.False(t, mr.Exists(key))
}
