package usecase

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

// Session holds one user's profile and its serialization state. A session is
// processed one action at a time; overlapping submits are rejected with
// ErrSessionBusy rather than queued. Readers share the same profile mutex:
// rendering a session view must not interleave with an in-flight action.
type Session struct {
	ID         string
	Profile    *domain.UserProfile
	CreatedAt  time.Time
	LastActive time.Time
	busy       bool

	mu sync.Mutex
}

// Lock takes the profile mutex. Every profile access, including read-side
// rendering and JSON encoding, happens under this lock. The busy flag on top
// of it only decides whether a second action gets ErrSessionBusy.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the profile mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionRegistry is the in-memory session store. Profiles do not survive a
// process restart; idle sessions expire after the configured TTL.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRegistry constructs a registry with the given idle TTL.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session with a fresh profile.
func (r *SessionRegistry) Create() *Session {
	now := r.now()
	s := &Session{
		ID:         ulid.Make().String(),
		Profile:    domain.NewUserProfile(),
		CreatedAt:  now,
		LastActive: now,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	observability.SessionsActive.Inc()
	return s
}

// Get returns the session or ErrNotFound.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// Acquire takes the session's action lock. ErrSessionBusy when another
// action is in flight; callers must Release after applying their action.
func (r *SessionRegistry) Acquire(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	if s.busy {
		return nil, fmt.Errorf("%w: session %s", domain.ErrSessionBusy, id)
	}
	s.busy = true
	s.LastActive = r.now()
	return s, nil
}

// Release frees the session's action lock.
func (r *SessionRegistry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.busy = false
	}
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle past the TTL and returns how many were
// evicted. Busy sessions are never evicted.
func (r *SessionRegistry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, s := range r.sessions {
		if !s.busy && s.LastActive.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		observability.SessionsActive.Sub(float64(evicted))
	}
	return evicted
}

// StartSweeper runs Sweep on the given interval until ctx is done.
func (r *SessionRegistry) StartSweeper(ctx domain.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := r.Sweep(); n > 0 {
					slog.Debug("swept idle sessions", slog.Int("evicted", n))
				}
			}
		}
	}()
}
