package listingcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/homico/browse/internal/db"
	"github.com/homico/browse/internal/domain/listing"
)

type mockBackend struct {
	page  listing.Page
	err   error
	calls int
}

func (m *mockBackend) Professionals(_ context.Context, _ listing.Query) (listing.Page, error) {
	m.calls++
	return m.page, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memKVStore is a map-backed store for round-trip tests.
type memKVStore struct {
	data map[string][]byte
}

func (m *memKVStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKVStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func newTestCachedBackend(t *testing.T, inner *mockBackend) (*CachedBackend, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cb := New(inner, ms, "homico:", time.Minute, nil, zap.NewNop())
	return cb, ms
}
