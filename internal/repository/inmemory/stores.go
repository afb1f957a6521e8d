// Package inmemory provides process-local fallbacks for the stores that
// are backed by Redis in a full deployment. Entries expire lazily on
// read; single-node deployments lose them on restart, which is
// acceptable for verification codes and token revocations.
package inmemory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type VerificationStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{entries: map[string]entry{}}
}

func (s *VerificationStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = entry{value: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *VerificationStore) Get(ctx context.Context, email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	if !ok {
		return "", false, nil
	}
	if e.expired(time.Now()) {
		delete(s.entries, email)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *VerificationStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

type RevocationStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{entries: map[string]entry{}}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tokenID] = entry{value: "1", expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[tokenID]
	if !ok {
		return false, nil
	}
	if e.expired(time.Now()) {
		delete(s.entries, tokenID)
		return false, nil
	}
	return true, nil
}
