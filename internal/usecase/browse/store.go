package browse

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/homico/browse/internal/domain/filter"
)

// Sync outcomes, used as the "result" label of the sync counter.
const (
	SyncReplaced = "replaced"
	SyncSkipped  = "skipped"
)

// Store owns the filter state of one browse view and mirrors its URL-backed
// subset into the navigator's query string.
//
// Every mutation is a single transition: the state is replaced in one step,
// change listeners see the final value once, and then the store compares the
// encoded state against the navigator's current query. Replace is issued only
// when the two differ.
//
// A Store has one owner and is not safe for concurrent use.
type Store struct {
	state     filter.State
	nav       Navigator
	listeners []func(filter.State)
	logger    *zap.Logger
	syncTotal *prometheus.CounterVec
}

// Option configures a Store.
type Option func(*options)

type options struct {
	seed      filter.Seed
	logger    *zap.Logger
	syncTotal *prometheus.CounterVec
}

// WithInitialCategory seeds the selected category.
func WithInitialCategory(category string) Option {
	return func(o *options) { o.seed.Category = category }
}

// WithInitialSubcategory seeds a single subcategory (old link format).
// Ignored when WithInitialSubcategories is non-empty.
func WithInitialSubcategory(subcategory string) Option {
	return func(o *options) { o.seed.Subcategory = subcategory }
}

// WithInitialSubcategories seeds the subcategory selection.
func WithInitialSubcategories(subcategories []string) Option {
	return func(o *options) { o.seed.Subcategories = subcategories }
}

// WithSeed seeds every URL-backed field at once, typically from filter.ParseSeed.
func WithSeed(seed filter.Seed) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSyncCounter sets a counter vec with label "result" (replaced/skipped).
func WithSyncCounter(c *prometheus.CounterVec) Option {
	return func(o *options) { o.syncTotal = c }
}

// New creates a store seeded from opts and brings the navigator's query in
// line with the seeded state.
func New(nav Navigator, opts ...Option) *Store {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		state:     o.seed.State(),
		nav:       nav,
		logger:    o.logger,
		syncTotal: o.syncTotal,
	}
	s.sync()
	return s
}

// OnChange registers a listener called with the new state after each
// transition that changed it. The returned func removes the listener.
func (s *Store) OnChange(fn func(filter.State)) (remove func()) {
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

// State returns a copy of the current filters.
func (s *Store) State() filter.State { return s.state.Clone() }

// SelectedSubcategory returns the first selected subcategory or "".
func (s *Store) SelectedSubcategory() string { return s.state.Subcategory() }

// HasActiveFilters reports whether any filter differs from its default.
func (s *Store) HasActiveFilters() bool { return s.state.HasActiveFilters() }

// SetSelectedCategory selects a top-level category; "" clears it.
func (s *Store) SetSelectedCategory(category string) {
	s.update(func(st *filter.State) { st.Category = category })
}

// SetSelectedSubcategory replaces the whole selection with [subcategory],
// or with nothing when subcategory is "". It never merges.
func (s *Store) SetSelectedSubcategory(subcategory string) {
	s.update(func(st *filter.State) {
		if subcategory == "" {
			st.Subcategories = []string{}
			return
		}
		st.Subcategories = []string{subcategory}
	})
}

// SetSelectedSubcategories replaces the selection. Repeated and empty keys
// are dropped, first occurrences keep their order.
func (s *Store) SetSelectedSubcategories(subcategories []string) {
	s.update(func(st *filter.State) { st.Subcategories = filter.UniqueKeys(subcategories) })
}

// ToggleSubcategory removes key when selected and appends it otherwise.
func (s *Store) ToggleSubcategory(key string) {
	if key == "" {
		return
	}
	s.update(func(st *filter.State) {
		if st.HasSubcategory(key) {
			st.Subcategories = slices.DeleteFunc(st.Subcategories, func(k string) bool { return k == key })
			return
		}
		st.Subcategories = append(st.Subcategories, key)
	})
}

// SetMinRating sets the rating floor; filter.NoRatingFloor clears it.
func (s *Store) SetMinRating(rating float64) {
	s.update(func(st *filter.State) { st.MinRating = rating })
}

// SetSelectedBudget selects a budget preset. Unknown keys are kept as given.
func (s *Store) SetSelectedBudget(budget filter.Budget) {
	if !budget.IsValid() {
		s.logger.Debug("unknown budget preset kept", zap.String("budget", string(budget)))
	}
	s.update(func(st *filter.State) { st.Budget = budget })
}

// SetBudgetMin sets the custom lower price bound; nil clears it.
func (s *Store) SetBudgetMin(v *float64) {
	s.update(func(st *filter.State) { st.BudgetMin = v })
}

// SetBudgetMax sets the custom upper price bound; nil clears it.
func (s *Store) SetBudgetMax(v *float64) {
	s.update(func(st *filter.State) { st.BudgetMax = v })
}

// SetSelectedCity selects a city; filter.AllCities clears it.
func (s *Store) SetSelectedCity(city string) {
	s.update(func(st *filter.State) { st.City = city })
}

// SetSearchQuery sets the free-text search.
func (s *Store) SetSearchQuery(query string) {
	s.update(func(st *filter.State) { st.Search = query })
}

// SetSortBy sets the listing order.
func (s *Store) SetSortBy(sortBy string) {
	s.update(func(st *filter.State) { st.SortBy = sortBy })
}

// ClearAllFilters resets every field in one transition.
func (s *Store) ClearAllFilters() {
	s.update(func(st *filter.State) { *st = filter.Default() })
}

// update applies fn to a private copy and commits it in one step.
func (s *Store) update(fn func(*filter.State)) {
	next := s.state.Clone()
	fn(&next)
	next = next.Clone()
	if next.Equal(s.state) {
		return
	}
	s.state = next

	for _, l := range s.listeners {
		if l != nil {
			l(s.state.Clone())
		}
	}
	s.sync()
}

func (s *Store) sync() {
	query := filter.EncodeQuery(s.state)
	path, current := s.nav.Location()
	if query == current {
		s.count(SyncSkipped)
		return
	}

	s.nav.Replace(path, query, ReplaceOptions{Scroll: false})
	s.count(SyncReplaced)
	s.logger.Debug("browse url replaced",
		zap.String("path", path),
		zap.String("from", current),
		zap.String("to", query),
	)
}

func (s *Store) count(result string) {
	if s.syncTotal != nil {
		s.syncTotal.WithLabelValues(result).Inc()
	}
}
