package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore holds opaque session tokens issued after a successful login.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	Validate(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore is the default single-process store. Sessions do not
// survive a restart, which is acceptable for a personal tracker; the redis
// store covers deployments that care.
type MemorySessionStore struct {
	TTL time.Duration

	mu       sync.Mutex
	sessions map[string]time.Time

	now func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		TTL:      ttl,
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Create(ctx context.Context) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = s.now().Add(s.TTL)
	return token, nil
}

func (s *MemorySessionStore) Validate(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return false, nil
	}
	return true, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
