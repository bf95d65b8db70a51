package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hr-org-system/pkg/errors"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis is not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLockRepository_Exclusive(t *testing.T) {
	client := newTestRedis(t)
	locks := NewRedisLockRepository(client)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	release, err := locks.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = locks.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrLocked)

	require.NoError(t, release(ctx))

	again, err := locks.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRedisLockRepository_StaleReleaseKeepsNewOwner(t *testing.T) {
	client := newTestRedis(t)
	locks := NewRedisLockRepository(client)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	stale, err := locks.Acquire(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	owner, err := locks.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	// the expired holder must not drop the new owner's lock
	require.NoError(t, stale(ctx))
	_, err = locks.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrLocked)

	require.NoError(t, owner(ctx))
}
