package browse

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	backendURL     string
	backendKey     string
	backendTimeout time.Duration

	redisAddrs    []string
	redisPassword string
	cacheTTL      time.Duration
	keyPrefix     string

	sessionTTL  time.Duration
	maxSessions int

	defaultLimit int
	maxLimit     int

	logger *zap.Logger
}

// WithBackend points the client at the marketplace REST API.
func WithBackend(baseURL, apiKey string) Option {
	return func(c *clientConfig) {
		c.backendURL = baseURL
		c.backendKey = apiKey
	}
}

// WithBackendTimeout bounds every backend request.
func WithBackendTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.backendTimeout = d
	}
}

// WithRedis enables the listing cache on a Redis server.
func WithRedis(password string, addrs ...string) Option {
	return func(c *clientConfig) {
		c.redisAddrs = addrs
		c.redisPassword = password
	}
}

// WithCacheTTL sets how long cached listing pages live.
func WithCacheTTL(d time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheTTL = d
	}
}

// WithKeyPrefix namespaces cache keys.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithSessionTTL drops browse sessions idle for longer than d on Sweep.
func WithSessionTTL(d time.Duration) Option {
	return func(c *clientConfig) {
		c.sessionTTL = d
	}
}

// WithMaxSessions caps open browse sessions.
func WithMaxSessions(n int) Option {
	return func(c *clientConfig) {
		c.maxSessions = n
	}
}

// WithPageSize sets the default and maximum listing page sizes.
func WithPageSize(defaultLimit, maxLimit int) Option {
	return func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
