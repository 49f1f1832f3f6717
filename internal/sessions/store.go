package sessions

import (
	"context"
	"sync"
	"time"
)

// Store records revoked token ids until the token would have expired anyway.
type Store interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Ping(ctx context.Context) error
}

// MemoryStore keeps revocations in process. Entries are pruned lazily.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{revoked: make(map[string]time.Time), now: now}
}

func (s *MemoryStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	if until.After(s.now()) {
		s.revoked[jti] = until
	}
	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !until.After(s.now()) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports the number of live revocations.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.revoked)
}

func (s *MemoryStore) pruneLocked() {
	now := s.now()
	for jti, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, jti)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
