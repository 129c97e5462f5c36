package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/metrics"
)

// Store keeps sessions in memory and expires them after a period of inactivity
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl           time.Duration
	debounceDelay time.Duration
	now           func() time.Time
	metrics       *metrics.Metrics
	log           logger.Logger
}

// NewStore creates a Store. Sessions idle for longer than ttl are dropped by Sweep.
func NewStore(ttl, debounceDelay time.Duration, m *metrics.Metrics, log logger.Logger) *Store {
	return &Store{
		sessions:      make(map[string]*Session),
		ttl:           ttl,
		debounceDelay: debounceDelay,
		now:           time.Now,
		metrics:       m,
		log:           log,
	}
}

// Create starts a new session with a random id
func (s *Store) Create() *Session {
	sess := newSession(uuid.NewString(), s.now(), s.debounceDelay)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.ActiveSessions.Set(float64(n))
	s.log.Debug("session created", "session_id", sess.id)
	return sess
}

// Get returns a live session and marks it as used
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := s.now()
	if now.Sub(sess.idleSince()) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Delete drops a session and cancels its pending timers
func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if ok {
		sess.close()
		s.metrics.ActiveSessions.Set(float64(n))
	}
}

// Len returns the number of sessions held
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops every expired session and returns how many were removed
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if len(expired) > 0 {
		s.metrics.ActiveSessions.Set(float64(n))
		s.log.Info("expired sessions removed", "count", len(expired), "remaining", n)
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
