package chi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/homico/browse/internal/domain"
	"github.com/homico/browse/internal/domain/filter"
	"github.com/homico/browse/internal/domain/listing"
	"github.com/homico/browse/internal/usecase/browse"
)

// OpenSessionRequest is the body of POST /v1/browse/sessions.
type OpenSessionRequest struct {
	Path  string `json:"path"`
	Query string `json:"query"`
}

// ApplyActionsRequest is the body of POST /v1/browse/sessions/{id}/actions.
type ApplyActionsRequest struct {
	Actions []ActionRequest `json:"actions"`
}

// ActionRequest is one filter mutation. Value is a string, a string array,
// a number or null depending on the op.
type ActionRequest struct {
	Op    string          `json:"op"`
	Value json.RawMessage `json:"value,omitempty"`
}

// LocationResponse is the URL of a browse view.
type LocationResponse struct {
	Path  string `json:"path"`
	Query string `json:"query"`
	URL   string `json:"url"`
}

// FiltersResponse mirrors filter.State.
type FiltersResponse struct {
	Category            string   `json:"category"`
	Subcategories       []string `json:"subcategories"`
	SelectedSubcategory string   `json:"selected_subcategory"`
	MinRating           float64  `json:"min_rating"`
	Budget              string   `json:"budget"`
	BudgetMin           *float64 `json:"budget_min"`
	BudgetMax           *float64 `json:"budget_max"`
	City                string   `json:"city"`
	Search              string   `json:"search"`
	SortBy              string   `json:"sort_by"`
}

// SessionResponse is a browse session snapshot.
type SessionResponse struct {
	ID               string           `json:"id"`
	Location         LocationResponse `json:"location"`
	Filters          FiltersResponse  `json:"filters"`
	HasActiveFilters bool             `json:"has_active_filters"`
	ReplaceCount     int              `json:"replace_count"`
}

// CanonicalResponse is the result of GET /v1/browse/canonical.
type CanonicalResponse struct {
	Query   string          `json:"query"`
	Filters FiltersResponse `json:"filters"`
}

// ProfessionalsResponse is one listing page.
type ProfessionalsResponse struct {
	Items   []listing.Professional `json:"items"`
	Total   int                    `json:"total"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
	HasMore bool                   `json:"has_more"`
}

// SubcategoryResponse is the body of GET /v1/subcategories/{key}.
type SubcategoryResponse struct {
	Key      string `json:"key"`
	Category string `json:"category"`
}

// BudgetResponse is one budget preset with its price bounds; nil is open.
type BudgetResponse struct {
	Key string   `json:"key"`
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

func filtersToResponse(st filter.State) FiltersResponse {
	subs := st.Subcategories
	if subs == nil {
		subs = []string{}
	}
	return FiltersResponse{
		Category:            st.Category,
		Subcategories:       subs,
		SelectedSubcategory: st.Subcategory(),
		MinRating:           st.MinRating,
		Budget:              string(st.Budget),
		BudgetMin:           st.BudgetMin,
		BudgetMax:           st.BudgetMax,
		City:                st.City,
		Search:              st.Search,
		SortBy:              st.SortBy,
	}
}

func sessionToResponse(snap browse.Snapshot) SessionResponse {
	return SessionResponse{
		ID: snap.ID,
		Location: LocationResponse{
			Path:  snap.Path,
			Query: snap.Query,
			URL:   snap.URL,
		},
		Filters:          filtersToResponse(snap.State),
		HasActiveFilters: snap.State.HasActiveFilters(),
		ReplaceCount:     snap.Replaces,
	}
}

func pageToResponse(p listing.Page) ProfessionalsResponse {
	return ProfessionalsResponse{
		Items:   p.Items,
		Total:   p.Total,
		Page:    p.Page,
		Limit:   p.Limit,
		HasMore: p.HasMore(),
	}
}

func actionsFromRequest(reqs []ActionRequest) ([]browse.Action, error) {
	out := make([]browse.Action, len(reqs))
	for i, req := range reqs {
		a, err := actionFromRequest(req)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}

func actionFromRequest(req ActionRequest) (browse.Action, error) {
	a := browse.Action{Op: browse.Op(req.Op)}

	var err error
	switch a.Op {
	case browse.OpSetSubcategories:
		err = decodeValue(req.Value, &a.List)
	case browse.OpSetMinRating, browse.OpSetBudgetMin, browse.OpSetBudgetMax:
		err = decodeValue(req.Value, &a.Number)
	case browse.OpClear:
	default:
		err = decodeValue(req.Value, &a.Text)
	}
	if err != nil {
		return browse.Action{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAction, req.Op, err)
	}
	return a, nil
}

// decodeValue leaves dst at its zero value for an absent or null value.
func decodeValue(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bad value %s", raw)
	}
	return nil
}
