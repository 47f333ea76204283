package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const runLockKey = "snapshot_run_lock"

// RunLock is a redis-backed run guard for deployments where more than one
// tracker process might fire a cycle. SetNX with a TTL gives non-blocking
// acquisition and guarantees a crashed holder cannot wedge the daily job.
type RunLock struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *log.Logger

	mu    sync.Mutex
	token string
}

func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{
		Client: client,
		TTL:    ttl,
		Logger: log.Default(),
	}
}

func (l *RunLock) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	token := uuid.New().String()
	ok, err := l.Client.SetNX(context.Background(), runLockKey, token, l.TTL).Result()
	if err != nil {
		l.Logger.Printf("REDIS: run lock acquire failed: %v", err)
		return false
	}
	if ok {
		l.token = token
	}
	return ok
}

// Release deletes the lock only if this instance still owns it, so an
// expired-and-reacquired lock is never stolen from the new holder.
func (l *RunLock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == "" {
		return
	}
	ctx := context.Background()

	val, err := l.Client.Get(ctx, runLockKey).Result()
	if err == redis.Nil {
		l.token = ""
		return
	}
	if err != nil {
		l.Logger.Printf("REDIS: run lock release failed: %v", err)
		return
	}
	if val == l.token {
		if _, err := l.Client.Del(ctx, runLockKey).Result(); err != nil {
			l.Logger.Printf("REDIS: run lock delete failed: %v", err)
			return
		}
	}
	l.token = ""
}
