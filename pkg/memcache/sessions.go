package memcache

import (
	"sync"
	"time"

	"upmoney/internal/flow"
)

// SessionStore keeps active chat sessions in memory with a TTL.
// Acquire hands out the session together with a release func while
// holding a per-session lock, so two concurrent submissions for the
// same session cannot both advance from the same position.
type SessionStore struct {
	mu   sync.Mutex
	data map[string]*entry
	ttl  time.Duration
}

type entry struct {
	mu        sync.Mutex
	sess      *flow.Session
	expiresAt time.Time
}

const DefaultSessionTTL = 30 * time.Minute

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		data: make(map[string]*entry),
		ttl:  ttl,
	}
}

func (s *SessionStore) Put(sess *flow.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.Token] = &entry{
		sess:      sess,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Acquire locks the session for exclusive use. The returned release
// func refreshes the TTL and unlocks; callers must always invoke it.
// Returns false when the token is unknown or expired.
func (s *SessionStore) Acquire(token string) (*flow.Session, func(), bool) {
	s.mu.Lock()
	e, ok := s.data[token]
	if !ok {
		s.mu.Unlock()
		return nil, nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.data, token) // cleanup expired
		s.mu.Unlock()
		return nil, nil, false
	}
	s.mu.Unlock()

	e.mu.Lock()
	release := func() {
		s.mu.Lock()
		e.expiresAt = time.Now().Add(s.ttl)
		s.mu.Unlock()
		e.mu.Unlock()
	}
	return e.sess, release, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, token)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
