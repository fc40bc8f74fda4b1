package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/tabular"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// BudgetService joins the per-category targets table against one month's
// column of the actuals table.
type BudgetService struct {
	store tabular.Reader
}

func NewBudgetService(store tabular.Reader) *BudgetService {
	return &BudgetService{store: store}
}

// ComputeStatus returns budget-vs-actual per category for a "YYYY-MM"
// month. A month absent from the actuals table is a caller error
// (NotFound), not an empty result.
func (s *BudgetService) ComputeStatus(ctx context.Context, month string) (core.BudgetOverview, error) {
	if !monthPattern.MatchString(month) {
		return core.BudgetOverview{}, core.E(core.KindValidation, "budget_status", "",
			fmt.Errorf("month %q is not in YYYY-MM format", month))
	}

	// Targets and actuals have no ordering dependency; fetch both at once.
	var targetRows, statsRows [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ReadRange(gctx, tabular.RangeBudget)
		targetRows = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.store.ReadRange(gctx, tabular.RangeMonthlyStats)
		statsRows = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return core.BudgetOverview{}, wrapStore("budget_status", err)
	}

	actuals, err := actualsForMonth(statsRows, month)
	if err != nil {
		return core.BudgetOverview{}, err
	}

	overview := core.BudgetOverview{Month: month}
	for _, row := range targetRows {
		target, err := tabular.ParseBudgetTarget(row)
		if err != nil {
			continue
		}
		actual := core.Money{Cents: actuals[strings.ToLower(target.Category)]}
		budgetRow := core.NewBudgetRow(target.Category, target.Target, actual)
		overview.Rows = append(overview.Rows, budgetRow)
		overview.TotalTarget.Cents += budgetRow.Target.Cents
		overview.TotalActual.Cents += budgetRow.Actual.Cents
	}
	overview.TotalRemaining.Cents = overview.TotalTarget.Cents - overview.TotalActual.Cents
	return overview, nil
}

// actualsForMonth extracts one month's column from the wide stats table.
// Row zero holds the month labels; each following row is a category.
func actualsForMonth(statsRows [][]string, month string) (map[string]int64, error) {
	if len(statsRows) == 0 {
		return nil, core.E(core.KindNotFound, "budget_status", "tabular",
			fmt.Errorf("actuals table is empty"))
	}

	col := -1
	for i, label := range statsRows[0] {
		if strings.EqualFold(strings.TrimSpace(label), month) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, core.E(core.KindNotFound, "budget_status", "tabular",
			fmt.Errorf("month %s not present in actuals table", month))
	}

	actuals := make(map[string]int64, len(statsRows)-1)
	for _, row := range statsRows[1:] {
		if len(row) == 0 {
			continue
		}
		category := strings.ToLower(strings.TrimSpace(row[0]))
		if category == "" || col >= len(row) {
			continue
		}
		if cents, ok := core.ParseLooseAmount(row[col]); ok {
			actuals[category] = cents
		}
	}
	return actuals, nil
}
