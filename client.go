package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/homico/browse/internal/db"
	dbRedis "github.com/homico/browse/internal/db/redis"
	"github.com/homico/browse/internal/repository/listingcache"
	"github.com/homico/browse/internal/transport/backend"
	browseuc "github.com/homico/browse/internal/usecase/browse"
	listinguc "github.com/homico/browse/internal/usecase/listing"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultBackendTimeout   = 5 * time.Second
	defaultCacheTTL         = time.Minute
	defaultKeyPrefix        = "homico:"
)

// Client hosts browse sessions in-process and fetches their listings.
type Client struct {
	store    db.Store
	api      *backend.Client
	sessions *browseuc.Sessions
	listings *listinguc.Service
}

// New creates a Client. WithBackend is required; the listing cache is
// enabled by WithRedis and checked for readiness with ctx.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		backendTimeout: defaultBackendTimeout,
		cacheTTL:       defaultCacheTTL,
		keyPrefix:      defaultKeyPrefix,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.backendURL == "" {
		return nil, errors.New("browse: backend URL required (use WithBackend)")
	}
	cfg.applyDefaults()

	api := backend.New(&backend.Config{
		BaseURL: cfg.backendURL,
		APIKey:  cfg.backendKey,
		Timeout: cfg.backendTimeout,
		Logger:  cfg.logger,
	})

	var store db.Store
	if len(cfg.redisAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("browse: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("browse: cache not ready: %w", err)
		}
		store = s
	}

	return wireClient(api, store, cfg), nil
}

// applyDefaults replaces unusable option values. Redis expiry has one-second
// resolution, so a shorter cache TTL would reach SET as EX 0.
func (c *clientConfig) applyDefaults() {
	if c.cacheTTL < time.Second {
		c.cacheTTL = defaultCacheTTL
	}
	if c.backendTimeout <= 0 {
		c.backendTimeout = defaultBackendTimeout
	}
	if c.keyPrefix == "" {
		c.keyPrefix = defaultKeyPrefix
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
}

func wireClient(api *backend.Client, store db.Store, cfg *clientConfig) *Client {
	var source listinguc.Backend = api
	if store != nil {
		source = listingcache.New(api, store, cfg.keyPrefix, cfg.cacheTTL, nil, cfg.logger)
	}

	return &Client{
		store: store,
		api:   api,
		sessions: browseuc.NewSessions(browseuc.SessionsConfig{
			TTL:         cfg.sessionTTL,
			MaxSessions: cfg.maxSessions,
		}, cfg.logger),
		listings: listinguc.New(source, listinguc.Config{
			DefaultLimit: cfg.defaultLimit,
			MaxLimit:     cfg.maxLimit,
		}),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend and cache connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.HealthCheck(ctx); err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	if c.store != nil {
		if err := c.store.Ping(ctx); err != nil {
			return fmt.Errorf("ping cache: %w", err)
		}
	}
	return nil
}

// Open mounts a browse session at path?rawQuery.
func (c *Client) Open(ctx context.Context, path, rawQuery string) (Snapshot, error) {
	snap, err := c.sessions.Open(ctx, path, rawQuery)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open session: %w", err)
	}
	return snap, nil
}

// Session returns the current snapshot of a session.
func (c *Client) Session(ctx context.Context, id string) (Snapshot, error) {
	snap, err := c.sessions.Get(ctx, id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get session: %w", err)
	}
	return snap, nil
}

// Apply runs actions in order against a session. Nothing is applied when any action is invalid.
func (c *Client) Apply(ctx context.Context, id string, actions ...Action) (Snapshot, error) {
	snap, err := c.sessions.Apply(ctx, id, actions)
	if err != nil {
		return Snapshot{}, fmt.Errorf("apply actions: %w", err)
	}
	return snap, nil
}

// CloseSession unmounts a session.
func (c *Client) CloseSession(ctx context.Context, id string) error {
	if err := c.sessions.Close(ctx, id); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// Sweep drops idle sessions and returns how many were removed.
func (c *Client) Sweep() int {
	return c.sessions.Sweep(time.Now())
}

// Professionals fetches one listing page for a session's current filters.
func (c *Client) Professionals(ctx context.Context, id string, page, limit int) (Page, error) {
	state, err := c.sessions.State(ctx, id)
	if err != nil {
		return Page{}, fmt.Errorf("get session: %w", err)
	}
	return c.Search(ctx, state, page, limit)
}

// Search fetches one listing page for an arbitrary filter state.
func (c *Client) Search(ctx context.Context, state State, page, limit int) (Page, error) {
	res, err := c.listings.Search(ctx, state, page, limit)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return res, nil
}
