package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client backed by miniredis, so no real
// Redis server is needed for tests.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	return client, mr
}

func cleanupTestRedis(client *redis.Client, mr *miniredis.Miniredis) {
	if client != nil {
		client.Close()
	}
	if mr != nil {
		mr.Close()
	}
}

func TestRunLockAcquireAndRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	lock := NewRunLock(client, 10*time.Minute)

	// First acquire succeeds and sets the key.
	assert.True(t, lock.TryAcquire())
	_, err := client.Get(context.Background(), runLockKey).Result()
	require.NoError(t, err)

	// A second holder must be turned away, never blocked.
	other := NewRunLock(client, 10*time.Minute)
	assert.False(t, other.TryAcquire())

	// After release the lock is free again.
	lock.Release()
	_, err = client.Get(context.Background(), runLockKey).Result()
	assert.Equal(t, redis.Nil, err, "lock key should be gone after release")
	assert.True(t, other.TryAcquire())
	other.Release()
}

func TestRunLockExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	lock := NewRunLock(client, 10*time.Minute)
	assert.True(t, lock.TryAcquire())

	// A crashed holder never releases; the TTL must free the lock on its own.
	mr.FastForward(11 * time.Minute)

	other := NewRunLock(client, 10*time.Minute)
	assert.True(t, other.TryAcquire(), "expired lock should be acquirable")
	other.Release()
}

func TestRunLockReleaseNeverStealsReacquiredLock(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	stale := NewRunLock(client, 10*time.Minute)
	assert.True(t, stale.TryAcquire())

	// The stale holder's lock expires and someone else takes it.
	mr.FastForward(11 * time.Minute)
	current := NewRunLock(client, 10*time.Minute)
	assert.True(t, current.TryAcquire())

	// The stale holder releasing now must not delete the current holder's lock.
	stale.Release()
	val, err := client.Get(context.Background(), runLockKey).Result()
	require.NoError(t, err, "current holder's lock must survive a stale release")
	assert.NotEmpty(t, val)

	current.Release()
}

func TestRunLockConcurrentAcquire(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock := NewRunLock(client, 10*time.Minute)
			if lock.TryAcquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, acquired, "exactly one process may hold the run lock")
}
