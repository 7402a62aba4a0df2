package browse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/homico/browse/internal/domain"
	"github.com/homico/browse/internal/domain/filter"
	logpkg "github.com/homico/browse/internal/logger"
)

// DefaultPath is the browse view path used when a session is opened without one.
const DefaultPath = "/browse"

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID       string
	Path     string
	Query    string
	URL      string
	State    filter.State
	Replaces int
}

// session pairs a store with its in-memory location. mu serializes all
// access, since the store itself has a single owner.
type session struct {
	id       string
	mu       sync.Mutex
	store    *Store
	nav      *MemoryNavigator
	lastUsed time.Time
}

func (s *session) snapshot() Snapshot {
	path, query := s.nav.Location()
	return Snapshot{
		ID:       s.id,
		Path:     path,
		Query:    query,
		URL:      s.nav.URL(),
		State:    s.store.State(),
		Replaces: s.nav.Replaces(),
	}
}

// SessionsConfig configures the registry.
type SessionsConfig struct {
	// TTL drops sessions idle for longer. Zero keeps sessions until Close.
	TTL time.Duration
	// MaxSessions caps open sessions. Zero means unlimited.
	MaxSessions int
	// SyncTotal is passed to every store (see WithSyncCounter). Optional.
	SyncTotal *prometheus.CounterVec
	// Active tracks the number of open sessions. Optional.
	Active prometheus.Gauge
}

// Sessions hosts the browse views of many clients, one store per view.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	cfg      SessionsConfig
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewSessions creates an empty registry.
func NewSessions(cfg SessionsConfig, logger *zap.Logger) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Open mounts a new browse view at path?rawQuery. The store is seeded from
// the query and may immediately rewrite it (old single-subcategory links,
// default-valued params).
func (r *Sessions) Open(ctx context.Context, path, rawQuery string) (Snapshot, error) {
	if path == "" {
		path = DefaultPath
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		r.sweepLocked(r.now())
		if len(r.sessions) >= r.cfg.MaxSessions {
			return Snapshot{}, fmt.Errorf("%w: limit %d", domain.ErrTooManySessions, r.cfg.MaxSessions)
		}
	}

	id := r.newID()
	nav := NewMemoryNavigator(path, rawQuery)
	sess := &session{
		id:  id,
		nav: nav,
		store: New(nav,
			WithSeed(filter.ParseSeedQuery(rawQuery)),
			WithLogger(r.logger.With(zap.String("session_id", id))),
			WithSyncCounter(r.cfg.SyncTotal),
		),
		lastUsed: r.now(),
	}
	r.sessions[sess.id] = sess
	r.setActive()

	logpkg.FromContext(ctx).Debug("browse session opened",
		zap.String("session_id", sess.id),
		zap.String("url", nav.URL()),
	)
	return sess.snapshot(), nil
}

// Get returns the current snapshot of a session.
func (r *Sessions) Get(_ context.Context, id string) (Snapshot, error) {
	sess, err := r.acquire(id)
	if err != nil {
		return Snapshot{}, err
	}
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// State returns a copy of a session's filters.
func (r *Sessions) State(ctx context.Context, id string) (filter.State, error) {
	snap, err := r.Get(ctx, id)
	if err != nil {
		return filter.State{}, err
	}
	return snap.State, nil
}

// Apply validates all actions, then runs them in order against the session's store.
// Nothing is applied when any action is invalid.
func (r *Sessions) Apply(ctx context.Context, id string, actions []Action) (Snapshot, error) {
	for i, a := range actions {
		if err := a.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("action %d: %w", i, err)
		}
	}

	sess, err := r.acquire(id)
	if err != nil {
		return Snapshot{}, err
	}
	defer sess.mu.Unlock()

	before := sess.nav.Replaces()
	for _, a := range actions {
		a.Apply(sess.store)
	}

	logpkg.FromContext(ctx).Debug("browse actions applied",
		zap.String("session_id", id),
		zap.Int("actions", len(actions)),
		zap.Int("replaces", sess.nav.Replaces()-before),
	)
	return sess.snapshot(), nil
}

// Close unmounts a session. Its state is gone; only the last URL survived.
func (r *Sessions) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	r.setActive()

	logpkg.FromContext(ctx).Debug("browse session closed", zap.String("session_id", id))
	return nil
}

// Len returns the number of open sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many it removed.
func (r *Sessions) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(now)
}

// Run sweeps every interval until ctx is done.
func (r *Sessions) Run(ctx context.Context, interval time.Duration) {
	if r.cfg.TTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				r.logger.Info("expired browse sessions", zap.Int("count", n))
			}
		}
	}
}

// acquire returns the session locked. Callers must unlock sess.mu.
func (r *Sessions) acquire(id string) (*session, error) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		sess.lastUsed = r.now()
	}
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	sess.mu.Lock()
	return sess, nil
}

func (r *Sessions) sweepLocked(now time.Time) int {
	if r.cfg.TTL <= 0 {
		return 0
	}
	removed := 0
	for id, sess := range r.sessions {
		if now.Sub(sess.lastUsed) > r.cfg.TTL {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.setActive()
	}
	return removed
}

func (r *Sessions) setActive() {
	if r.cfg.Active != nil {
		r.cfg.Active.Set(float64(len(r.sessions)))
	}
}
