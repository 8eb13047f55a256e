package lock

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL     = 10 * time.Second
	defaultMaxWait = 5 * time.Second
	retryInterval  = 25 * time.Millisecond
	releaseTimeout = 2 * time.Second
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance behind the same Redis.
type RedisLocker struct {
	rdb     *redis.Client
	ttl     time.Duration
	maxWait time.Duration
}

// NewRedisLocker creates a RedisLocker. ttl bounds how long a crashed holder
// can block a key; maxWait bounds how long Acquire polls.
func NewRedisLocker(rdb *redis.Client, ttl, maxWait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, maxWait: maxWait}
}

// Acquire polls SET NX until the key is ours, ctx ends, or maxWait elapses.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return l.releaser(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaser(key, token string) Release {
	return func() {
		// Use a fresh context: the request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			log.Printf("WARN: Failed to release lock '%s': %v", key, err)
		}
	}
}

// ConnectRedis creates a client and verifies it with PING.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}
