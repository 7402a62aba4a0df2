package listing

import (
	"context"
	"fmt"

	"github.com/homico/browse/internal/domain/filter"
	"github.com/homico/browse/internal/domain/listing"
)

// Config bounds page sizes.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// Service shapes filter state into backend listing queries.
type Service struct {
	backend      Backend
	defaultLimit int
	maxLimit     int
}

// New creates a listing service. Zero limits fall back to listing.DefaultLimit and listing.MaxLimit.
func New(backend Backend, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = listing.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = listing.MaxLimit
	}
	return &Service{backend: backend, defaultLimit: cfg.DefaultLimit, maxLimit: cfg.MaxLimit}
}

// Search fetches one page of professionals matching the state.
func (s *Service) Search(ctx context.Context, state filter.State, page, limit int) (listing.Page, error) {
	q := s.Query(state, page, limit)
	res, err := s.backend.Professionals(ctx, q)
	if err != nil {
		return listing.Page{}, fmt.Errorf("fetch professionals: %w", err)
	}
	if res.Items == nil {
		res.Items = []listing.Professional{}
	}
	return res, nil
}

// Query maps a filter state plus paging onto a backend query.
//
// Explicit budget bounds take precedence over the preset; when neither bound
// is set the preset's range is used. The "all" city and the recommended sort
// are backend defaults and are left out.
func (s *Service) Query(state filter.State, page, limit int) listing.Query {
	q := listing.Query{
		Category:  state.Category,
		MinRating: state.MinRating,
		Search:    state.Search,
		Page:      page,
		Limit:     limit,
	}
	if len(state.Subcategories) > 0 {
		q.Subcategories = append([]string(nil), state.Subcategories...)
	}

	if state.BudgetMin != nil || state.BudgetMax != nil {
		q.PriceMin = copyFloat(state.BudgetMin)
		q.PriceMax = copyFloat(state.BudgetMax)
	} else {
		q.PriceMin, q.PriceMax = state.Budget.Range()
	}

	if state.City != filter.AllCities {
		q.City = state.City
	}
	if state.SortBy != filter.SortRecommended {
		q.Sort = state.SortBy
	}

	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit <= 0:
		q.Limit = s.defaultLimit
	case q.Limit > s.maxLimit:
		q.Limit = s.maxLimit
	}
	return q
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
