// Package browse embeds the Homico marketplace browse filters in Go programs:
// a filter store that keeps a view's URL query in sync, and a client that
// hosts browse sessions and fetches listings from the marketplace backend.
package browse

import (
	"net/url"

	"github.com/homico/browse/internal/domain"
	"github.com/homico/browse/internal/domain/filter"
	"github.com/homico/browse/internal/domain/listing"
	browseuc "github.com/homico/browse/internal/usecase/browse"
)

// Filter state and its URL contract.
type (
	// State is the filter state of one browse view.
	State = filter.State
	// Budget is a budget preset key.
	Budget = filter.Budget
	// Seed holds the filter fields read from an incoming URL.
	Seed = filter.Seed
)

// Budget presets.
const (
	BudgetAll      = filter.BudgetAll
	BudgetUnder500 = filter.BudgetUnder500
	Budget500To2k  = filter.Budget500To2k
	Budget2kTo5k   = filter.Budget2kTo5k
	BudgetOver5k   = filter.BudgetOver5k
)

// Store and its host contract.
type (
	// Store owns the filter state of a single browse view.
	Store = browseuc.Store
	// StoreOption configures a Store.
	StoreOption = browseuc.Option
	// Navigator is the host's URL primitive the store writes through.
	Navigator = browseuc.Navigator
	// ReplaceOptions accompanies every URL replace.
	ReplaceOptions = browseuc.ReplaceOptions
	// Action is a serializable store mutation.
	Action = browseuc.Action
	// Op names the mutation an Action performs.
	Op = browseuc.Op
	// MemoryNavigator keeps a view's location in memory.
	MemoryNavigator = browseuc.MemoryNavigator
	// Snapshot is a read-only view of a hosted session.
	Snapshot = browseuc.Snapshot
)

// Action ops.
const (
	OpSetCategory       = browseuc.OpSetCategory
	OpSetSubcategory    = browseuc.OpSetSubcategory
	OpSetSubcategories  = browseuc.OpSetSubcategories
	OpToggleSubcategory = browseuc.OpToggleSubcategory
	OpSetMinRating      = browseuc.OpSetMinRating
	OpSetBudget         = browseuc.OpSetBudget
	OpSetBudgetMin      = browseuc.OpSetBudgetMin
	OpSetBudgetMax      = browseuc.OpSetBudgetMax
	OpSetCity           = browseuc.OpSetCity
	OpSetSearch         = browseuc.OpSetSearch
	OpSetSort           = browseuc.OpSetSort
	OpClear             = browseuc.OpClear
)

// Errors returned by Client, matched with errors.Is.
var (
	ErrSessionNotFound    = domain.ErrSessionNotFound
	ErrTooManySessions    = domain.ErrTooManySessions
	ErrInvalidAction      = domain.ErrInvalidAction
	ErrBackendUnavailable = domain.ErrBackendUnavailable
	ErrBackendRejected    = domain.ErrBackendRejected
)

// Listing results.
type (
	// Professional is one listing entry.
	Professional = listing.Professional
	// Page is one page of listing results.
	Page = listing.Page
)

// DefaultState returns the state with no filters applied.
func DefaultState() State {
	return filter.Default()
}

// NewMemoryNavigator creates an in-memory navigator at path?rawQuery.
func NewMemoryNavigator(path, rawQuery string) *MemoryNavigator {
	return browseuc.NewMemoryNavigator(path, rawQuery)
}

// NewStore mounts a filter store on nav. See WithSeed and friends.
func NewStore(nav Navigator, opts ...StoreOption) *Store {
	return browseuc.New(nav, opts...)
}

// Store options.
var (
	WithInitialCategory      = browseuc.WithInitialCategory
	WithInitialSubcategory   = browseuc.WithInitialSubcategory
	WithInitialSubcategories = browseuc.WithInitialSubcategories
	WithSeed                 = browseuc.WithSeed
	WithStoreLogger          = browseuc.WithLogger
)

// ParseQuery reads the filter fields of a raw URL query. It never fails;
// malformed pairs and numbers are ignored.
func ParseQuery(rawQuery string) Seed {
	return filter.ParseSeedQuery(rawQuery)
}

// EncodeQuery renders the URL query string for s.
func EncodeQuery(s State) string {
	return filter.EncodeQuery(s)
}

// CanonicalQuery returns the query a freshly mounted view settles on for q.
func CanonicalQuery(q url.Values) string {
	return filter.Canonical(q)
}
