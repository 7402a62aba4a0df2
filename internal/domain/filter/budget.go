package filter

import "slices"

// Budget is a price preset selected from the budget dropdown.
type Budget string

// Budget presets. BudgetAll is the "no filter" sentinel.
const (
	BudgetAll      Budget = "all"
	BudgetUnder500 Budget = "under-500"
	Budget500To2k  Budget = "500-2000"
	Budget2kTo5k   Budget = "2000-5000"
	BudgetOver5k   Budget = "over-5000"
)

// Budgets lists the presets in display order.
var Budgets = []Budget{BudgetAll, BudgetUnder500, Budget500To2k, Budget2kTo5k, BudgetOver5k}

// IsValid checks if the budget is one of the known presets.
func (b Budget) IsValid() bool {
	return slices.Contains(Budgets, b)
}

// Range returns the GEL bounds of the preset. A nil bound is open.
// Unknown presets and BudgetAll have no bounds.
func (b Budget) Range() (low, high *float64) {
	switch b {
	case BudgetUnder500:
		return nil, float64Ptr(500)
	case Budget500To2k:
		return float64Ptr(500), float64Ptr(2000)
	case Budget2kTo5k:
		return float64Ptr(2000), float64Ptr(5000)
	case BudgetOver5k:
		return float64Ptr(5000), nil
	}
	return nil, nil
}

func float64Ptr(v float64) *float64 { return &v }
