package listingcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/homico/browse/internal/db"
	"github.com/homico/browse/internal/domain/listing"
)

const keySpace = "listing:"

// store is the consumer interface for the listing cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// backend is the decorated listing source.
type backend interface {
	Professionals(ctx context.Context, q listing.Query) (listing.Page, error)
}

// CachedBackend caches listing pages in a key-value store.
type CachedBackend struct {
	inner      backend
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner backend,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedBackend {
	return &CachedBackend{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Professionals returns a cached page or calls the inner backend.
// Cache failures degrade to a miss; backend errors are never cached.
func (c *CachedBackend) Professionals(ctx context.Context, q listing.Query) (listing.Page, error) {
	key := c.cacheKey(q)

	if page, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return page, nil
	}

	c.incCache("miss")

	page, err := c.inner.Professionals(ctx, q)
	if err != nil {
		return listing.Page{}, fmt.Errorf("fetch listing page: %w", err)
	}

	c.putToCache(ctx, key, page)
	return page, nil
}

func (c *CachedBackend) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedBackend) cacheKey(q listing.Query) string {
	h := sha256.Sum256([]byte(q.Encode()))
	return c.prefix + keySpace + hex.EncodeToString(h[:])
}

func (c *CachedBackend) getFromCache(ctx context.Context, key string) (listing.Page, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached listing", zap.String("key", key), zap.Error(err))
		}
		return listing.Page{}, false
	}
	if len(data) == 0 {
		return listing.Page{}, false
	}

	var page listing.Page
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("Failed to parse cached listing", zap.String("key", key), zap.Error(err))
		return listing.Page{}, false
	}
	return page, true
}

func (c *CachedBackend) putToCache(ctx context.Context, key string, page listing.Page) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("Failed to encode listing for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache listing", zap.String("key", key), zap.Error(err))
	}
}
