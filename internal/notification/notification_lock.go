package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const SweepLockKey = "lock:notification:sweep"

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SweepLock is a Redis lock that lets a single instance sweep at a time.
type SweepLock struct {
	rdb   *redis.Client
	key   string
	ttl   time.Duration
	token func() string
}

func NewSweepLock(rdb *redis.Client, ttl time.Duration) *SweepLock {
	return &SweepLock{rdb: rdb, key: SweepLockKey, ttl: ttl, token: uuid.NewString}
}

// Acquire returns a release token, or "" when another holder owns the lock.
func (l *SweepLock) Acquire(ctx context.Context) (string, error) {
	token := l.token()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

func (l *SweepLock) Release(ctx context.Context, token string) error {
	err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
