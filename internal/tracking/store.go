// Package tracking holds the ephemeral state of carrier-lookup sessions.
// The carrier integration is a two-step exchange (fetch captcha, then submit
// the query with the captcha answer) and the cookies and form state captured
// in step one must survive until step two. Entries live in a keyed store with
// an explicit TTL instead of a process-global map.
package tracking

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session carries the opaque artifacts of one carrier lookup.
type Session struct {
	ID        string
	Cookies   map[string]string
	FormState map[string]string
	CreatedAt time.Time
}

type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*Session
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*Session),
		now:     time.Now,
	}
}

// Create registers a new session and returns it with a fresh key.
func (s *Store) Create(cookies, formState map[string]string) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Cookies:   cookies,
		FormState: formState,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.CreatedAt = s.now()
	s.sweepLocked()
	s.entries[sess.ID] = sess
	return sess
}

// Get returns the session for id, or nil if it is unknown or expired.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.entries[id]
	if !ok {
		return nil
	}
	if s.now().Sub(sess.CreatedAt) > s.ttl {
		delete(s.entries, id)
		return nil
	}
	return sess
}

// Delete removes a session once its lookup has finished.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len reports the number of live sessions, sweeping expired ones first.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.entries {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
