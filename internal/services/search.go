package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/tabular"
)

// DefaultSearchLimit caps returned transactions when the caller gives none.
const DefaultSearchLimit = 10

// SearchService runs ad-hoc multi-predicate queries over the raw log.
type SearchService struct {
	store tabular.Reader
}

func NewSearchService(store tabular.Reader) *SearchService {
	return &SearchService{store: store}
}

// Search scans the whole log once, applies every supplied predicate
// conjunctively, then sorts matches by date descending (stable: rows
// sharing a date keep log order) and truncates to the limit. TotalFound
// and TransactionCount cover all matches, not only the returned page.
func (s *SearchService) Search(ctx context.Context, criteria core.SearchCriteria) (core.SearchResult, error) {
	rows, err := s.store.ReadRange(ctx, tabular.RangeTransactions)
	if err != nil {
		return core.SearchResult{}, wrapStore("search", err)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var (
		matches []core.Transaction
		total   int64
	)
	for _, row := range rows {
		tx, err := tabular.ParseTransaction(row)
		if err != nil {
			// Rows written by hand or by older tooling; skip, don't fail.
			continue
		}
		if !matchesCriteria(tx, criteria) {
			continue
		}
		matches = append(matches, tx)
		total += tx.Amount.Cents
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date > matches[j].Date
	})

	count := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return core.SearchResult{
		QuerySummary:     fmt.Sprintf("Found %d transactions", count),
		TotalFound:       core.Money{Cents: total},
		TransactionCount: count,
		Transactions:     matches,
	}, nil
}

func matchesCriteria(tx core.Transaction, c core.SearchCriteria) bool {
	if c.Month != "" && !strings.HasPrefix(tx.Date, c.Month) {
		return false
	}
	if c.Date != "" && !strings.HasPrefix(tx.Date, c.Date) {
		return false
	}
	if c.Merchant != "" && !strings.Contains(strings.ToLower(tx.Merchant), strings.ToLower(c.Merchant)) {
		return false
	}
	if c.Category != "" && !strings.EqualFold(tx.Category, c.Category) {
		return false
	}
	if c.MinAmount.Cents > 0 && tx.Amount.Cents < c.MinAmount.Cents {
		return false
	}
	return true
}
