package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "lock:"

// releaseScript deletes the key only while it still carries our token, so an
// expired holder cannot release a lock someone else has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript pushes the expiry out only while the key still carries our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis is a Locker shared by every process talking to the same Redis.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	log    *zap.Logger
}

// NewRedis returns a Redis locker. ttl bounds how long a crashed holder can
// keep a key and wait bounds how long Lock polls for it. A live holder keeps
// the key by extending it every ttl/3 until it unlocks.
func NewRedis(client redis.UniversalClient, ttl, wait time.Duration, log *zap.Logger) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		log:    log.With(zap.String("component", "redis_lock")),
	}
}

func (l *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if waitCtx.Err() != nil {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return l.hold(redisKey, token), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrTimeout
		case <-time.After(l.retry):
		}
	}
}

// hold starts the keep-alive loop and returns the unlock func that stops it.
func (l *Redis) hold(redisKey, token string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(redisKey, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			l.release(redisKey, token)
		})
	}
}

func (l *Redis) keepAlive(redisKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	every := l.ttl / 3
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), every)
		extended, err := extendScript.Run(ctx, l.client, []string{redisKey}, token, l.ttl.Milliseconds()).Int64()
		cancel()

		switch {
		case err != nil:
			l.log.Warn("Failed to extend lock", zap.String("key", redisKey), zap.Error(err))
		case extended == 0:
			l.log.Error("Lock expired while held", zap.String("key", redisKey), zap.Duration("ttl", l.ttl))
			return
		}
	}
}

func (l *Redis) release(redisKey, token string) {
	// the caller's context may already be cancelled; the key must still go
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
		l.log.Warn("Failed to release lock, it will expire on its own",
			zap.String("key", redisKey),
			zap.Duration("ttl", l.ttl),
			zap.Error(err),
		)
	}
}
