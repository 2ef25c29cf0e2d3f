package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Lock is a short-lived mutual exclusion key
type Lock struct {
	key   string
	token string
}

// AcquireLock tries once to take key for ttl. ok is false when someone else holds it.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, bool, error) {
	token := uuid.NewString()
	ok, err := SetNX(ctx, key, token, ttl)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Lock{key: key, token: token}, true, nil
}

// Release drops the lock if it has not expired and been taken over
func (l *Lock) Release(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if client == nil {
		return ErrNotInitialized
	}
	return releaseScript.Run(ctx, client, []string{l.key}, l.token).Err()
}
