package browse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homico/browse/internal/domain"
)

func TestNew_NoBackend(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no backend URL provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithBackend("https://api.homico.ge", "key")(cfg)
	if cfg.backendURL != "https://api.homico.ge" || cfg.backendKey != "key" {
		t.Errorf("backend = %q/%q", cfg.backendURL, cfg.backendKey)
	}

	WithRedis("secret", "localhost:6379", "localhost:6380")(cfg)
	if len(cfg.redisAddrs) != 2 || cfg.redisPassword != "secret" {
		t.Errorf("redis = %v/%q", cfg.redisAddrs, cfg.redisPassword)
	}

	WithCacheTTL(5 * time.Minute)(cfg)
	WithKeyPrefix("test:")(cfg)
	WithSessionTTL(time.Hour)(cfg)
	WithMaxSessions(10)(cfg)
	WithPageSize(20, 40)(cfg)
	WithBackendTimeout(2 * time.Second)(cfg)

	if cfg.cacheTTL != 5*time.Minute || cfg.keyPrefix != "test:" {
		t.Errorf("cache = %v/%q", cfg.cacheTTL, cfg.keyPrefix)
	}
	if cfg.sessionTTL != time.Hour || cfg.maxSessions != 10 {
		t.Errorf("sessions = %v/%d", cfg.sessionTTL, cfg.maxSessions)
	}
	if cfg.defaultLimit != 20 || cfg.maxLimit != 40 || cfg.backendTimeout != 2*time.Second {
		t.Errorf("limits = %d/%d timeout %v", cfg.defaultLimit, cfg.maxLimit, cfg.backendTimeout)
	}
}

func TestClientConfig_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantTTL time.Duration
	}{
		{"unset", nil, defaultCacheTTL},
		{"zero", []Option{WithCacheTTL(0)}, defaultCacheTTL},
		{"negative", []Option{WithCacheTTL(-time.Minute)}, defaultCacheTTL},
		{"sub-second", []Option{WithCacheTTL(500 * time.Millisecond)}, defaultCacheTTL},
		{"valid", []Option{WithCacheTTL(2 * time.Minute)}, 2 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &clientConfig{}
			for _, o := range tt.opts {
				o(cfg)
			}
			cfg.applyDefaults()
			if cfg.cacheTTL != tt.wantTTL {
				t.Errorf("cacheTTL = %v, want %v", cfg.cacheTTL, tt.wantTTL)
			}
			if cfg.logger == nil || cfg.keyPrefix != defaultKeyPrefix || cfg.backendTimeout != defaultBackendTimeout {
				t.Errorf("defaults not applied: %+v", cfg)
			}
		})
	}
}

func TestClient_SessionLifecycle(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{}`))
		case "/professionals":
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"data":[{"id":"p1","name":"Ana","rating":4.6}],` +
				`"pagination":{"total":1,"page":1,"limit":12}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c, err := New(ctx, WithBackend(srv.URL, ""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	snap, err := c.Open(ctx, "/browse", "subcategory=plumbing")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if snap.Query != "subcategories=plumbing" {
		t.Errorf("query after mount = %q", snap.Query)
	}

	snap, err = c.Apply(ctx, snap.ID,
		Action{Op: OpSetCategory, Text: "craftsmen"},
		Action{Op: OpSetBudget, Text: string(BudgetUnder500)},
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if snap.Query != "category=craftsmen&subcategories=plumbing" {
		t.Errorf("query after apply = %q", snap.Query)
	}

	page, err := c.Professionals(ctx, snap.ID, 0, 0)
	if err != nil {
		t.Fatalf("Professionals: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Ana" {
		t.Errorf("unexpected page: %+v", page)
	}
	want := "category=craftsmen&limit=12&maxPrice=500&page=1&subcategories=plumbing"
	if gotQuery != want {
		t.Errorf("backend query = %q, want %q", gotQuery, want)
	}

	if err := c.CloseSession(ctx, snap.ID); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, err := c.Session(ctx, snap.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

// historyNavigator is a host that records every URL it was asked to show.
type historyNavigator struct {
	path, query string
	shown       []string
}

func (n *historyNavigator) Location() (string, string) { return n.path, n.query }

func (n *historyNavigator) Replace(path, rawQuery string, opts ReplaceOptions) {
	n.path, n.query = path, rawQuery
	n.shown = append(n.shown, path+"?"+rawQuery)
	if opts.Scroll {
		panic("store must not scroll")
	}
}

func TestNewStore_CustomNavigator(t *testing.T) {
	nav := &historyNavigator{path: "/browse", query: "category=design"}
	s := NewStore(nav, WithSeed(ParseQuery(nav.query)))

	s.SetSearchQuery("loft")
	s.SetSearchQuery("loft")
	s.ClearAllFilters()

	want := []string{"/browse?category=design&search=loft", "/browse?"}
	if len(nav.shown) != len(want) {
		t.Fatalf("shown = %v, want %v", nav.shown, want)
	}
	for i := range want {
		if nav.shown[i] != want[i] {
			t.Errorf("shown[%d] = %q, want %q", i, nav.shown[i], want[i])
		}
	}
	if EncodeQuery(s.State()) != "" {
		t.Errorf("state not cleared: %+v", s.State())
	}
}
