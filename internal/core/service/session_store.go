package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

const defaultSessionTTL = 24 * time.Hour

type sessionRecord struct {
	customerID    string
	lastTouchedAt time.Time
}

// SessionStore maps opaque bearer tokens to customer ids with a sliding
// 24-hour expiry. It is an explicit, injected instance: construct one at
// process start, hand it to whatever needs it. Lookups are in-memory and
// never touch persistence.
//
// Validation is a single locked read-modify-write: the expiry check and the
// timestamp refresh happen under the same critical section, so two requests
// racing near the expiry boundary cannot disagree about whether the session
// is alive.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionRecord
	ttl      time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewSessionStore builds an empty store. A non-positive ttl falls back to 24h.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*sessionRecord),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create generates a crypto-random token and associates it with customerID.
// The only failure mode is the entropy source going away, which is fatal for
// the login attempt.
func (s *SessionStore) Create(customerID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[token] = &sessionRecord{customerID: customerID, lastTouchedAt: s.now()}
	s.mu.Unlock()
	return token, nil
}

// Validate resolves a token to its customer id, refreshing the sliding window.
// An expired token is deleted and reported exactly like a token that never
// existed.
func (s *SessionStore) Validate(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	now := s.now()
	if now.Sub(rec.lastTouchedAt) > s.ttl {
		delete(s.sessions, token)
		return "", false
	}
	rec.lastTouchedAt = now
	return rec.customerID, true
}

// Remove deletes a session. Removing an unknown token is a no-op.
func (s *SessionStore) Remove(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// RemoveAllForCustomer deletes every session belonging to customerID
// (forced logout-everywhere). Unrelated tokens are untouched.
func (s *SessionStore) RemoveAllForCustomer(customerID string) {
	s.mu.Lock()
	for token, rec := range s.sessions {
		if rec.customerID == customerID {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
}

// Sweep drops every expired session and returns how many were removed.
// Purely an optimization against abandoned tokens piling up; Validate already
// expires lazily and observes nothing Sweep does.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, rec := range s.sessions {
		if now.Sub(rec.lastTouchedAt) > s.ttl {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len reports the current number of live plus not-yet-swept sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
