package mem

import (
	"context"
	"sync"
	"time"
)

// RevokedTokens is an in-process revocation list keyed by session jti.
// Entries expire together with the token they revoke.
type RevokedTokens struct {
	mu   sync.RWMutex
	data map[string]time.Time
	now  func() time.Time
}

func NewRevokedTokens() *RevokedTokens {
	return &RevokedTokens{
		data: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (s *RevokedTokens) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !expiresAt.After(s.now()) {
		return nil
	}
	s.data[jti] = expiresAt
	s.sweepLocked()
	return nil
}

func (s *RevokedTokens) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.data[jti]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		s.mu.Lock()
		delete(s.data, jti)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// Len reports the number of live entries.
func (s *RevokedTokens) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *RevokedTokens) sweepLocked() {
	now := s.now()
	for k, exp := range s.data {
		if now.After(exp) {
			delete(s.data, k)
		}
	}
}
