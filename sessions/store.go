package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
)

const (
	// DefaultTTL is the absolute session lifespan from creation (or the last
	// explicit extension).
	DefaultTTL = 24 * time.Hour

	// DefaultSweepInterval is how often Run reclaims expired sessions that
	// are never looked up again.
	DefaultSweepInterval = time.Hour

	// IDPrefix is prepended to every session identifier. The id is opaque to
	// all consumers and must not be parsed beyond the prefix.
	IDPrefix = "mcp_"
)

// Session binds a client connection to an identity and TTL. Values returned
// by the store are copies; the store retains exclusive ownership of the
// canonical entries.
type Session struct {
	ID             string
	UserID         int64
	OrganizationID int64
	Credential     string
	Capabilities   mcp.ClientCapabilities
	CreatedAt      time.Time
	LastActivityAt time.Time
	ExpiresAt      time.Time
}

// Context is the read-only projection handed to collaborators such as tool
// handlers. It deliberately omits the credential and timestamps.
type Context struct {
	SessionID      string
	UserID         int64
	OrganizationID int64
	Role           string
}

// Stats is a point-in-time census of the store.
type Stats struct {
	Total          int           `json:"total"`
	Active         int           `json:"active"`
	Expired        int           `json:"expired"`
	ByOrganization map[int64]int `json:"byOrganization"`
}

// Store owns session lifecycle: creation, TTL enforcement, lookup indices,
// and periodic garbage collection. All operations are synchronous map
// mutations behind one mutex; no operation returns an error for absence.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	log           *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the session lifespan. Intended for tests that need to
// observe expiry without waiting a day.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSweepInterval overrides the interval used by Run.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for sweep reporting.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore constructs an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:      make(map[string]*Session),
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a session for the given identity. It always succeeds.
func (s *Store) Create(userID, organizationID int64, credential string, caps mcp.ClientCapabilities) *Session {
	now := s.now()
	sess := &Session{
		ID:             IDPrefix + uuid.NewString(),
		UserID:         userID,
		OrganizationID: organizationID,
		Credential:     credential,
		Capabilities:   caps,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	out := *sess
	return &out
}

// Get returns the session if present and not expired, bumping its activity
// stamp. An expired entry is removed as a side effect (lazy expiry) and
// reported as absent, independent of whether a sweep has run.
func (s *Store) Get(sessionID string) (*Session, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if s.expired(sess, now) {
		delete(s.sessions, sessionID)
		return nil, false
	}

	sess.LastActivityAt = now
	out := *sess
	return &out, true
}

// Touch bumps the activity stamp without a full lookup. Returns false for an
// absent or expired session (the expired entry is removed).
func (s *Store) Touch(sessionID string) bool {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	if s.expired(sess, now) {
		delete(s.sessions, sessionID)
		return false
	}
	sess.LastActivityAt = now
	return true
}

// Delete removes the session unconditionally and reports whether one existed.
func (s *Store) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok
}

// ListByUser returns all live sessions for a user. Expired entries are
// filtered out during iteration without mutating the store.
func (s *Store) ListByUser(userID int64) []*Session {
	return s.list(func(sess *Session) bool { return sess.UserID == userID })
}

// ListByOrganization returns all live sessions for an organization.
func (s *Store) ListByOrganization(organizationID int64) []*Session {
	return s.list(func(sess *Session) bool { return sess.OrganizationID == organizationID })
}

func (s *Store) list(match func(*Session) bool) []*Session {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Session, 0)
	for _, sess := range s.sessions {
		if s.expired(sess, now) || !match(sess) {
			continue
		}
		cp := *sess
		out = append(out, &cp)
	}
	return out
}

// Extend pushes the expiry of a still-valid session forward by the given
// number of hours and returns true. Returns false for an absent or expired
// session. The sign of hours is not validated; callers pass positive values.
func (s *Store) Extend(sessionID string, hours int) bool {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, now) {
		return false
	}
	sess.ExpiresAt = sess.ExpiresAt.Add(time.Duration(hours) * time.Hour)
	return true
}

// Sweep removes every entry whose expiry has passed and returns the count.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Stats returns point-in-time counts without mutating the store. Expired but
// not-yet-reclaimed entries are counted as expired; ByOrganization counts
// active sessions only.
func (s *Store) Stats() Stats {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{ByOrganization: make(map[int64]int)}
	for _, sess := range s.sessions {
		st.Total++
		if s.expired(sess, now) {
			st.Expired++
			continue
		}
		st.Active++
		st.ByOrganization[sess.OrganizationID]++
	}
	return st
}

// Run sweeps on a fixed interval until ctx is done. It bounds memory growth
// from abandoned sessions that are never looked up again; lazy expiry in Get
// covers correctness in between sweeps.
func (s *Store) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.InfoContext(ctx, "session.sweep.ok", slog.Int("removed", n))
			}
		}
	}
}

// expired implements the read-side expiry rule: a session is absent once
// now >= ExpiresAt.
func (s *Store) expired(sess *Session, now time.Time) bool {
	return !now.Before(sess.ExpiresAt)
}
