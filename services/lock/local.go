package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LocalRoomLocker serializes reservations inside one process. It backs the
// memory store driver, where a single instance owns all state.
type LocalRoomLocker struct {
	mu    sync.Mutex
	rooms map[string]chan struct{}
	wait  time.Duration
}

func NewLocalRoomLocker(wait time.Duration) *LocalRoomLocker {
	return &LocalRoomLocker{rooms: make(map[string]chan struct{}), wait: wait}
}

func (l *LocalRoomLocker) slot(roomID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.rooms[roomID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.rooms[roomID] = ch
	}
	return ch
}

func (l *LocalRoomLocker) Lock(ctx context.Context, roomID string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	ch := l.slot(roomID)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: room %s", ErrLockTimeout, roomID)
	}
}
