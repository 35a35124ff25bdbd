package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoomLocker_SerializesSameRoom(t *testing.T) {
	locker := NewLocalRoomLocker(2 * time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(context.Background(), "room-1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLocalRoomLocker_DifferentRoomsDoNotBlock(t *testing.T) {
	locker := NewLocalRoomLocker(50 * time.Millisecond)

	releaseA, err := locker.Lock(context.Background(), "room-a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := locker.Lock(context.Background(), "room-b")
	require.NoError(t, err)
	releaseB()
}

func TestLocalRoomLocker_TimesOut(t *testing.T) {
	locker := NewLocalRoomLocker(20 * time.Millisecond)

	release, err := locker.Lock(context.Background(), "room-1")
	require.NoError(t, err)
	defer release()

	_, err = locker.Lock(context.Background(), "room-1")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestLocalRoomLocker_ReleaseIsIdempotent(t *testing.T) {
	locker := NewLocalRoomLocker(50 * time.Millisecond)

	release, err := locker.Lock(context.Background(), "room-1")
	require.NoError(t, err)
	release()
	release()

	again, err := locker.Lock(context.Background(), "room-1")
	require.NoError(t, err)
	again()
}
