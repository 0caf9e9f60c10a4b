package infra_redis_lock

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-redis/redis"
	"github.com/google/uuid"
)

const keyPrefix = "room-lock:"

var ErrNotAcquired = errors.New("room lock is held by another owner")

// Deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Driver is a lease based lock shared by every instance that talks to the same Redis.
// A lease that outlives its holder expires after ttl.
type Driver struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *slog.Logger
}

func New(
	client *redis.Client,
	ttl time.Duration,
	wait time.Duration,
) *Driver {
	return &Driver{
		client: client,
		ttl:    ttl,
		wait:   wait,
		logger: slog.Default(),
	}
}

func (d *Driver) Lock(ctx context.Context, code string) (func(), error) {
	key := keyPrefix + code
	token := uuid.NewString()
	client := d.client.WithContext(ctx)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (bool, error) {
		ok, err := client.SetNX(key, token, d.ttl).Result()
		if err != nil {
			return false, backoff.Permanent(err)
		}
		if !ok {
			return false, ErrNotAcquired
		}
		return true, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(d.wait))
	if err != nil {
		return nil, err
	}

	return func() {
		// The caller may be gone already, the lease must still be released.
		if err := releaseScript.Run(d.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			d.logger.Error("failed to release room lock", "room", code, "error", err)
		}
	}, nil
}
