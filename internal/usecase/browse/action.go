package browse

import (
	"fmt"

	"github.com/homico/browse/internal/domain"
	"github.com/homico/browse/internal/domain/filter"
)

// Op names a store mutation.
type Op string

// Store mutations reachable through Action.
const (
	OpSetCategory       Op = "set_category"
	OpSetSubcategory    Op = "set_subcategory"
	OpSetSubcategories  Op = "set_subcategories"
	OpToggleSubcategory Op = "toggle_subcategory"
	OpSetMinRating      Op = "set_min_rating"
	OpSetBudget         Op = "set_budget"
	OpSetBudgetMin      Op = "set_budget_min"
	OpSetBudgetMax      Op = "set_budget_max"
	OpSetCity           Op = "set_city"
	OpSetSearch         Op = "set_search"
	OpSetSort           Op = "set_sort"
	OpClear             Op = "clear"
)

// Action is one mutation in transport-neutral form. Text carries string
// arguments, List the subcategory list, Number numeric arguments (nil clears
// budget bounds).
type Action struct {
	Op     Op
	Text   string
	List   []string
	Number *float64
}

// Validate checks that the op is known and carries the argument it needs.
func (a Action) Validate() error {
	switch a.Op {
	case OpSetCategory, OpSetSubcategory, OpSetSubcategories, OpSetBudget,
		OpSetBudgetMin, OpSetBudgetMax, OpSetCity, OpSetSearch, OpSetSort, OpClear:
		return nil
	case OpToggleSubcategory:
		if a.Text == "" {
			return fmt.Errorf("%w: %s requires a subcategory key", domain.ErrInvalidAction, a.Op)
		}
		return nil
	case OpSetMinRating:
		if a.Number == nil {
			return fmt.Errorf("%w: %s requires a number", domain.ErrInvalidAction, a.Op)
		}
		return nil
	case "":
		return fmt.Errorf("%w: op is required", domain.ErrInvalidAction)
	default:
		return fmt.Errorf("%w: unknown op %q", domain.ErrInvalidAction, a.Op)
	}
}

// Apply runs the action against s. The action must be valid.
func (a Action) Apply(s *Store) {
	switch a.Op {
	case OpSetCategory:
		s.SetSelectedCategory(a.Text)
	case OpSetSubcategory:
		s.SetSelectedSubcategory(a.Text)
	case OpSetSubcategories:
		s.SetSelectedSubcategories(a.List)
	case OpToggleSubcategory:
		s.ToggleSubcategory(a.Text)
	case OpSetMinRating:
		s.SetMinRating(*a.Number)
	case OpSetBudget:
		s.SetSelectedBudget(filter.Budget(a.Text))
	case OpSetBudgetMin:
		s.SetBudgetMin(a.Number)
	case OpSetBudgetMax:
		s.SetBudgetMax(a.Number)
	case OpSetCity:
		s.SetSelectedCity(a.Text)
	case OpSetSearch:
		s.SetSearchQuery(a.Text)
	case OpSetSort:
		s.SetSortBy(a.Text)
	case OpClear:
		s.ClearAllFilters()
	}
}
