// Package lock serializes reservation attempts per room.
package lock

import (
	"context"
	"errors"
)

// ErrLockTimeout is returned when the room lock could not be acquired before
// the wait budget or the caller's deadline ran out.
var ErrLockTimeout = errors.New("timed out waiting for room lock")

// RoomLocker hands out an exclusive lock per room. The returned release func
// must be called exactly once.
type RoomLocker interface {
	Lock(ctx context.Context, roomID string) (release func(), err error)
}
