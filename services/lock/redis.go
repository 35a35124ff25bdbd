package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// releaseScript deletes the lock only if it still holds our token, so a lock
// that expired and was taken by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisRoomLocker is a RoomLocker shared by every API instance pointing at the
// same Redis database.
type RedisRoomLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

func NewRedisRoomLocker(client *redis.Client, ttl, wait time.Duration, logger *zap.Logger) *RedisRoomLocker {
	return &RedisRoomLocker{client: client, ttl: ttl, wait: wait, logger: logger}
}

func (l *RedisRoomLocker) Lock(ctx context.Context, roomID string) (func(), error) {
	key := utils.RoomLockPrefix + roomID
	token := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	backoff := 10 * time.Millisecond
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: room %s", ErrLockTimeout, roomID)
			}
			return nil, fmt.Errorf("failed to acquire lock for room %s: %w", roomID, err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: room %s", ErrLockTimeout, roomID)
		case <-time.After(backoff):
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}
}

func (l *RedisRoomLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Warn("failed to release room lock", zap.String("key", key), zap.Error(err))
	}
}
