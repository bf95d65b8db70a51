package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	apperrors "hr-org-system/pkg/errors"
)

// ReleaseFunc gives a held lock back.
type ReleaseFunc func(ctx context.Context) error

type LockRepositoryInterface interface {
	// Acquire takes key for ttl or returns ErrLocked when someone else holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLockRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisLockRepository(client *redis.Client) LockRepositoryInterface {
	return &RedisLockRepository{client: client, prefix: "hr-org:lock:"}
}

func (r *RedisLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	fullKey := r.prefix + key
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, apperrors.ErrLocked)
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, r.client, []string{fullKey}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
