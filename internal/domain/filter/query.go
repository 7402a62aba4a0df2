package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// URL query parameter names.
const (
	ParamCategory      = "category"
	ParamSubcategory   = "subcategory" // single-subcategory links, read only
	ParamSubcategories = "subcategories"
	ParamMinRating     = "minRating"
	ParamBudgetMin     = "budgetMin"
	ParamBudgetMax     = "budgetMax"
	ParamSearch        = "search"
)

const subcategorySep = ","

// EncodeQuery serializes the URL-backed subset of s into a raw query string.
//
// Parameters are written in a fixed order and only when they hold a
// non-default value: category, subcategories (comma-joined), minRating (> 0),
// budgetMin, budgetMax (when set, zero included) and search. Budget, City and
// SortBy are never written. The all-defaults state encodes to "".
func EncodeQuery(s State) string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	if s.Category != "" {
		add(ParamCategory, s.Category)
	}
	if len(s.Subcategories) > 0 {
		add(ParamSubcategories, strings.Join(s.Subcategories, subcategorySep))
	}
	if s.MinRating > NoRatingFloor {
		add(ParamMinRating, formatNumber(s.MinRating))
	}
	if s.BudgetMin != nil {
		add(ParamBudgetMin, formatNumber(*s.BudgetMin))
	}
	if s.BudgetMax != nil {
		add(ParamBudgetMax, formatNumber(*s.BudgetMax))
	}
	if s.Search != "" {
		add(ParamSearch, s.Search)
	}
	return b.String()
}

// Seed is the set of initial values read from an incoming URL.
type Seed struct {
	Category      string
	Subcategory   string
	Subcategories []string
	MinRating     float64
	BudgetMin     *float64
	BudgetMax     *float64
	Search        string
}

// ParseSeed reads seed values from a URL query. Malformed numbers are treated
// as absent; nothing else is validated.
func ParseSeed(q url.Values) Seed {
	seed := Seed{
		Category:    q.Get(ParamCategory),
		Subcategory: q.Get(ParamSubcategory),
		Search:      q.Get(ParamSearch),
	}
	if raw := q.Get(ParamSubcategories); raw != "" {
		seed.Subcategories = UniqueKeys(strings.Split(raw, subcategorySep))
	}
	if v, ok := parseNumber(q.Get(ParamMinRating)); ok {
		seed.MinRating = v
	}
	if v, ok := parseNumber(q.Get(ParamBudgetMin)); ok {
		seed.BudgetMin = &v
	}
	if v, ok := parseNumber(q.Get(ParamBudgetMax)); ok {
		seed.BudgetMax = &v
	}
	return seed
}

// ParseSeedQuery is ParseSeed for a raw query string. Pairs with a broken
// escape sequence are skipped; the rest of the query still seeds.
func ParseSeedQuery(rawQuery string) Seed {
	q, _ := url.ParseQuery(rawQuery)
	return ParseSeed(q)
}

// State builds the initial filter state. A non-empty Subcategories wins over
// the single Subcategory; all other fields start at their defaults.
func (sd Seed) State() State {
	s := Default()
	s.Category = sd.Category
	switch {
	case len(sd.Subcategories) > 0:
		s.Subcategories = UniqueKeys(sd.Subcategories)
	case sd.Subcategory != "":
		s.Subcategories = []string{sd.Subcategory}
	}
	s.MinRating = sd.MinRating
	s.BudgetMin = clonePtr(sd.BudgetMin)
	s.BudgetMax = clonePtr(sd.BudgetMax)
	s.Search = sd.Search
	return s
}

// Canonical returns the query the store would write for an incoming query.
func Canonical(q url.Values) string {
	return EncodeQuery(ParseSeed(q).State())
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumber(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
