package filter

import (
	"net/url"
	"testing"
)

func TestEncodeQuery_Defaults(t *testing.T) {
	if got := EncodeQuery(Default()); got != "" {
		t.Errorf("EncodeQuery(Default()) = %q, want empty", got)
	}
}

func TestEncodeQuery_FixedOrder(t *testing.T) {
	s := Default()
	s.Search = "leaking pipe"
	s.BudgetMax = floatPtr(2000)
	s.BudgetMin = floatPtr(500)
	s.MinRating = 4
	s.Subcategories = []string{"electrical"}
	s.Category = "craftsmen"

	want := "category=craftsmen&subcategories=electrical&minRating=4&budgetMin=500&budgetMax=2000&search=leaking+pipe"
	if got := EncodeQuery(s); got != want {
		t.Errorf("EncodeQuery() =\n%q\nwant\n%q", got, want)
	}
}

func TestEncodeQuery_SessionLocalFieldsNeverWritten(t *testing.T) {
	s := Default()
	s.Budget = BudgetOver5k
	s.City = "batumi"
	s.SortBy = "price-low"
	if got := EncodeQuery(s); got != "" {
		t.Errorf("EncodeQuery() = %q, want empty", got)
	}
}

func TestEncodeQuery_Values(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
		want   string
	}{
		{"zero rating omitted", func(s *State) { s.MinRating = 0 }, ""},
		{"negative rating omitted", func(s *State) { s.MinRating = -1 }, ""},
		{"fractional rating", func(s *State) { s.MinRating = 4.5 }, "minRating=4.5"},
		{"out of range rating kept", func(s *State) { s.MinRating = 7 }, "minRating=7"},
		{"zero budget min kept", func(s *State) { s.BudgetMin = floatPtr(0) }, "budgetMin=0"},
		{"zero budget max kept", func(s *State) { s.BudgetMax = floatPtr(0) }, "budgetMax=0"},
		{"inverted budget kept", func(s *State) {
			s.BudgetMin = floatPtr(900)
			s.BudgetMax = floatPtr(100)
		}, "budgetMin=900&budgetMax=100"},
		{"multiple subcategories", func(s *State) {
			s.Subcategories = []string{"electrical", "plumbing"}
		}, "subcategories=electrical%2Cplumbing"},
		{"escaped search", func(s *State) { s.Search = "a&b=c" }, "search=a%26b%3Dc"},
		{"georgian search", func(s *State) { s.Search = "ხელოსანი" },
			"search=" + url.QueryEscape("ხელოსანი")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if got := EncodeQuery(s); got != tt.want {
				t.Errorf("EncodeQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSeed_AllParams(t *testing.T) {
	q, _ := url.ParseQuery("category=craftsmen&subcategories=wiring,tiling,wiring&minRating=3.5&budgetMin=0&budgetMax=800&search=tiles")
	seed := ParseSeed(q)

	if seed.Category != "craftsmen" {
		t.Errorf("Category = %q", seed.Category)
	}
	if len(seed.Subcategories) != 2 || seed.Subcategories[0] != "wiring" || seed.Subcategories[1] != "tiling" {
		t.Errorf("Subcategories = %v", seed.Subcategories)
	}
	if seed.MinRating != 3.5 {
		t.Errorf("MinRating = %v", seed.MinRating)
	}
	if seed.BudgetMin == nil || *seed.BudgetMin != 0 {
		t.Errorf("BudgetMin = %v, want 0", seed.BudgetMin)
	}
	if seed.BudgetMax == nil || *seed.BudgetMax != 800 {
		t.Errorf("BudgetMax = %v, want 800", seed.BudgetMax)
	}
	if seed.Search != "tiles" {
		t.Errorf("Search = %q", seed.Search)
	}
}

func TestParseSeed_MalformedNumbersIgnored(t *testing.T) {
	q, _ := url.ParseQuery("minRating=abc&budgetMin=NaN&budgetMax=Inf")
	seed := ParseSeed(q)
	if seed.MinRating != 0 {
		t.Errorf("MinRating = %v, want 0", seed.MinRating)
	}
	if seed.BudgetMin != nil {
		t.Errorf("BudgetMin = %v, want nil", *seed.BudgetMin)
	}
	if seed.BudgetMax != nil {
		t.Errorf("BudgetMax = %v, want nil", *seed.BudgetMax)
	}
}

func TestSeedState_PluralWins(t *testing.T) {
	s := Seed{Subcategory: "plumbing", Subcategories: []string{"wiring", "tiling"}}.State()
	if len(s.Subcategories) != 2 || s.Subcategories[0] != "wiring" || s.Subcategories[1] != "tiling" {
		t.Errorf("Subcategories = %v, want [wiring tiling]", s.Subcategories)
	}
}

func TestSeedState_SingularFallback(t *testing.T) {
	s := Seed{Subcategory: "plumbing"}.State()
	if len(s.Subcategories) != 1 || s.Subcategories[0] != "plumbing" {
		t.Errorf("Subcategories = %v, want [plumbing]", s.Subcategories)
	}
}

func TestSeedState_Empty(t *testing.T) {
	s := Seed{}.State()
	if !s.Equal(Default()) {
		t.Errorf("Seed{}.State() = %+v, want defaults", s)
	}
}

func TestRoundTrip_ExactlyNonDefaultFields(t *testing.T) {
	tests := []string{
		"",
		"category=craftsmen",
		"category=craftsmen&subcategories=electrical&minRating=4",
		"category=craftsmen&subcategories=electrical&minRating=4&budgetMin=500&budgetMax=2000",
		"subcategories=a%2Cb%2Cc&search=x+y",
		"budgetMin=0",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			seed := ParseSeedQuery(raw)
			if got := EncodeQuery(seed.State()); got != raw {
				t.Errorf("round trip = %q, want %q", got, raw)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	q, _ := url.ParseQuery("search=tile&subcategory=plumbing&utm_source=fb&minRating=0&category=craftsmen")
	want := "category=craftsmen&subcategories=plumbing&search=tile"
	if got := Canonical(q); got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}

func TestParseSeedQuery_SkipsBrokenPairs(t *testing.T) {
	seed := ParseSeedQuery("search=%zz&category=craftsmen")
	if seed.Category != "craftsmen" {
		t.Errorf("Category = %q, want craftsmen", seed.Category)
	}
	if seed.Search != "" {
		t.Errorf("Search = %q, want empty", seed.Search)
	}
}
