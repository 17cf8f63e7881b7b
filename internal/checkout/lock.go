package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Second

// Locker guards a cart session against concurrent submissions. Acquire
// returns false without error when another submission holds the lock.
type Locker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), ok bool, err error)
}

// RedisLocker uses SET NX with a TTL so a crashed instance cannot hold a
// session forever.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, ttl: defaultLockTTL}
}

// only the holder's token may delete the key
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLocker) Acquire(ctx context.Context, sessionID string) (func(), bool, error) {
	key := lockKey(sessionID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// the request context may already be canceled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

func lockKey(sessionID string) string {
	return "checkout:lock:" + sessionID
}
