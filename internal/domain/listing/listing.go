// Package listing describes professional listing queries sent to the marketplace backend.
package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// Page size bounds.
const (
	DefaultLimit = 12
	MaxLimit     = 50
)

// Query is a backend listing request derived from a browse filter state.
type Query struct {
	Category      string
	Subcategories []string
	MinRating     float64
	PriceMin      *float64
	PriceMax      *float64
	City          string
	Search        string
	Sort          string
	Page          int
	Limit         int
}

// Values renders the query as backend request parameters. Unset fields are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if len(q.Subcategories) > 0 {
		v.Set("subcategories", strings.Join(q.Subcategories, ","))
	}
	if q.MinRating > 0 {
		v.Set("minRating", formatNumber(q.MinRating))
	}
	if q.PriceMin != nil {
		v.Set("minPrice", formatNumber(*q.PriceMin))
	}
	if q.PriceMax != nil {
		v.Set("maxPrice", formatNumber(*q.PriceMax))
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}

// Encode returns the canonical encoded form (keys sorted), stable for equal queries.
func (q Query) Encode() string {
	return q.Values().Encode()
}

// Professional is a single listing entry.
type Professional struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Title         string   `json:"title,omitempty"`
	Avatar        string   `json:"avatar,omitempty"`
	Category      string   `json:"category,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
	City          string   `json:"city,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	PriceFrom     *float64 `json:"priceFrom,omitempty"`
	PriceTo       *float64 `json:"priceTo,omitempty"`
	Verified      bool     `json:"verified,omitempty"`
}

// Page is one page of listing results.
type Page struct {
	Items []Professional `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// HasMore reports whether later pages exist.
func (p Page) HasMore() bool {
	return p.Page*p.Limit < p.Total
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
