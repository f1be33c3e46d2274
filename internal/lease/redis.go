package lease

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when the caller still holds it,
// so an expired lease taken over by someone else is never released
// out from under the new holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLease implements Lease on Redis using SET NX PX
type RedisLease struct {
	client *redis.Client
}

// NewRedisLease creates a new RedisLease
func NewRedisLease(client *redis.Client) *RedisLease {
	return &RedisLease{client: client}
}

// Acquire attempts to take the lease on key for ttl
func (l *RedisLease) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release gives up the lease if the token still matches
func (l *RedisLease) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}
