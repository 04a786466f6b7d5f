package memory

import (
	"context"
	"sync"
	"time"

	"studyhub/internal/domain"
)

// CreateCredential stores c under its (already normalized) email.
func (s *Store) CreateCredential(_ context.Context, c domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[c.Email]; ok {
		return domain.ErrEmailTaken
	}
	s.creds[c.Email] = c
	return nil
}

func (s *Store) GetCredentialByEmail(_ context.Context, email string) (domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.creds[email]
	if !ok {
		return domain.Credential{}, domain.ErrCredentialNotFound
	}
	return c, nil
}

// Revocations remembers signed-out token ids until they would have expired anyway.
type Revocations struct {
	mu    sync.Mutex
	until map[string]time.Time
	clock func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{until: make(map[string]time.Time), clock: time.Now}
}

// Revoke records tokenID and sweeps entries whose tokens have expired.
func (r *Revocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock()
	for id, expiry := range r.until {
		if now.After(expiry) {
			delete(r.until, id)
		}
	}
	if now.After(until) {
		return nil
	}
	r.until[tokenID] = until
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.until[tokenID]
	if !ok {
		return false, nil
	}
	if r.clock().After(until) {
		delete(r.until, tokenID)
		return false, nil
	}
	return true, nil
}
