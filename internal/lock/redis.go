package lock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every API instance. The TTL bounds how long a
// crashed holder can keep a scope.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	prefix string
	logger *slog.Logger
}

func NewRedis(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		rdb:    rdb,
		ttl:    ttl,
		wait:   ttl,
		retry:  25 * time.Millisecond,
		prefix: "scheduler:lock",
		logger: logger,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := strings.Join([]string{r.prefix, key}, ":")
	token := uuid.NewString()

	deadline := time.Now().Add(r.wait)
	for {
		ok, err := r.rdb.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}

		t := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("%w: %v", ErrNotAcquired, ctx.Err())
		case <-t.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be cancelled
			relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(relCtx, r.rdb, []string{k}, token).Err(); err != nil && err != redis.Nil {
				r.logger.Warn("lock release failed", "key", key, "err", err)
			}
		})
	}, nil
}

// Ping is a readiness check.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
