package otpstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Consume failure reasons. Callers that must not leak which check failed
// should collapse all three into a single external error.
var (
	ErrCodeNotFound = errors.New("otpstore: no pending code")
	ErrCodeExpired  = errors.New("otpstore: code expired")
	ErrCodeMismatch = errors.New("otpstore: code mismatch")
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store is an in-memory, TTL-bounded map of pending verification codes keyed
// by identity (email). At most one live code exists per key; Put replaces any
// previous entry. Safe for concurrent use; check-then-delete on a key is
// atomic under the store mutex, so concurrent consumes of the same code yield
// exactly one success.
//
// Entries are checked lazily against their expiry; an optional sweeper evicts
// expired-but-unconsumed entries as hygiene.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New returns a Store whose entries live for ttl after each Put.
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores code under key, unconditionally replacing any pending entry.
func (s *Store) Put(key, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
}

// CheckAndConsume validates code against the pending entry for key.
// On an exact in-TTL match the entry is removed and nil is returned.
// A mismatch leaves the entry in place so the caller may retry within the
// TTL. An expired entry is removed on sight; expiry is terminal.
func (s *Store) CheckAndConsume(key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return ErrCodeNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return ErrCodeExpired
	}
	if e.code != code {
		return ErrCodeMismatch
	}
	delete(s.entries, key)
	return nil
}

// StartSweeper evicts expired entries every interval until ctx is cancelled.
// Purely hygiene: CheckAndConsume rejects expired entries regardless.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
