package core

const (
	BudgetOK      BudgetStatus = "OK"
	BudgetWarning BudgetStatus = "WARNING"
	BudgetOver    BudgetStatus = "OVER_BUDGET"
)

type (
	BudgetStatus string

	// BudgetTarget is one row of the targets table: a category and its
	// monthly target. Categories absent from the table have no target.
	BudgetTarget struct {
		Category string
		Target   Money
	}

	BudgetRow struct {
		Category  string
		Target    Money
		Actual    Money
		Remaining Money
		Status    BudgetStatus
	}

	// BudgetOverview joins targets against one month of actuals. Rows keep
	// the iteration order of the targets table.
	BudgetOverview struct {
		Month          string
		TotalTarget    Money
		TotalActual    Money
		TotalRemaining Money
		Rows           []BudgetRow
	}
)

// StatusFor applies the budget policy: overspend is OVER_BUDGET, less than
// 20% of the target remaining is WARNING, everything else is OK. A zero
// target is OK until any spend appears.
func StatusFor(target, actual Money) BudgetStatus {
	remaining := target.Cents - actual.Cents
	switch {
	case remaining < 0:
		return BudgetOver
	case target.Cents > 0 && remaining*5 < target.Cents:
		return BudgetWarning
	default:
		return BudgetOK
	}
}

// NewBudgetRow computes the derived fields for one category.
func NewBudgetRow(category string, target, actual Money) BudgetRow {
	return BudgetRow{
		Category:  category,
		Target:    target,
		Actual:    actual,
		Remaining: Money{Cents: target.Cents - actual.Cents},
		Status:    StatusFor(target, actual),
	}
}
