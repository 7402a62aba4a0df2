// Package filter holds the browse filter aggregate of the marketplace listing
// view and its URL query string contract.
package filter

import (
	"math"
	"slices"
)

// Field defaults. Each one doubles as the "no filter" sentinel for its field.
const (
	NoRatingFloor   float64 = 0
	AllCities               = "all"
	SortRecommended         = "recommended"
)

// State is the set of active browse filters.
//
// Category and Search use "" for "unset". BudgetMin and BudgetMax use nil for
// "unset"; zero is a real bound. No field is validated: an unknown Budget, a
// rating outside [0,5] or BudgetMin > BudgetMax are stored as given.
type State struct {
	Category      string
	Subcategories []string
	MinRating     float64
	Budget        Budget
	BudgetMin     *float64
	BudgetMax     *float64
	City          string
	Search        string
	SortBy        string
}

// Default returns the state with every field at its default.
func Default() State {
	return State{
		Subcategories: []string{},
		MinRating:     NoRatingFloor,
		Budget:        BudgetAll,
		City:          AllCities,
		SortBy:        SortRecommended,
	}
}

// HasActiveFilters reports whether any field differs from its default.
func (s State) HasActiveFilters() bool {
	return s.Category != "" ||
		len(s.Subcategories) > 0 ||
		s.MinRating != NoRatingFloor ||
		s.Budget != BudgetAll ||
		s.BudgetMin != nil ||
		s.BudgetMax != nil ||
		s.City != AllCities ||
		s.Search != "" ||
		s.SortBy != SortRecommended
}

// Subcategory returns the first selected subcategory, or "" when none is
// selected. Kept for consumers of the single-subcategory link format.
func (s State) Subcategory() string {
	if len(s.Subcategories) == 0 {
		return ""
	}
	return s.Subcategories[0]
}

// HasSubcategory reports whether key is selected.
func (s State) HasSubcategory(key string) bool {
	return slices.Contains(s.Subcategories, key)
}

// Clone returns a deep copy that shares no memory with s.
func (s State) Clone() State {
	c := s
	c.Subcategories = append([]string{}, s.Subcategories...)
	c.BudgetMin = clonePtr(s.BudgetMin)
	c.BudgetMax = clonePtr(s.BudgetMax)
	return c
}

// Equal reports whether two states hold the same filters.
func (s State) Equal(o State) bool {
	return s.Category == o.Category &&
		slices.Equal(s.Subcategories, o.Subcategories) &&
		ratingEqual(s.MinRating, o.MinRating) &&
		s.Budget == o.Budget &&
		ptrEqual(s.BudgetMin, o.BudgetMin) &&
		ptrEqual(s.BudgetMax, o.BudgetMax) &&
		s.City == o.City &&
		s.Search == o.Search &&
		s.SortBy == o.SortBy
}

// ratingEqual treats NaN as equal to itself so a repeated NaN write is a no-op.
func ratingEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// UniqueKeys drops empty and repeated keys, keeping first occurrences in order.
func UniqueKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
