package services

import (
	"context"
	"testing"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/tabular"
	"budgetbuddy/internal/tabular/memory"
)

func txRow(id, date, merchant, amount, category string) []string {
	return []string{id, date, merchant, amount, category, "Discretionary", "1", "MAP", "JHB", "2026-02-11T00:00:00Z"}
}

func seedSearch(store *memory.Store) {
	store.Seed(tabular.RangeTransactions, [][]string{
		txRow("t1", "2026-02-01", "UBER TRIP CPT", "60.00", "Transport & Fuel"),
		txRow("t2", "2026-02-03", "WOOLWORTHS", "450.00", "Groceries"),
		txRow("t3", "2026-02-03", "UBER EATS JHB", "125.50", "Eating Out"),
		txRow("t4", "2026-02-05", "Uber Trip JHB", "40.00", "Transport & Fuel"),
		txRow("t5", "2026-01-28", "UBER EATS CPT", "80.00", "Eating Out"),
	})
}

func search(t *testing.T, store *memory.Store, c core.SearchCriteria) core.SearchResult {
	t.Helper()
	res, err := NewSearchService(store).Search(context.Background(), c)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	return res
}

func TestSearchConjunction(t *testing.T) {
	store := memory.New()
	seedSearch(store)

	res := search(t, store, core.SearchCriteria{
		Merchant:  "uber",
		MinAmount: core.Money{Cents: 5000},
	})

	// t1 (60.00), t3 (125.50) and t5 (80.00) contain "uber" and meet the
	// bound; t4 (40.00) is below it, t2 is not an Uber merchant.
	if res.TransactionCount != 3 {
		t.Fatalf("expected 3 matches, got %d: %+v", res.TransactionCount, res.Transactions)
	}
	if res.TotalFound.Cents != 6000+12550+8000 {
		t.Fatalf("total over all matches: got %d", res.TotalFound.Cents)
	}
	for _, tx := range res.Transactions {
		if tx.Amount.Cents < 5000 {
			t.Fatalf("min amount not applied: %+v", tx)
		}
	}
}

func TestSearchMinAmountIsInclusive(t *testing.T) {
	store := memory.New()
	seedSearch(store)
	res := search(t, store, core.SearchCriteria{MinAmount: core.Money{Cents: 6000}})
	for _, tx := range res.Transactions {
		if tx.ID == "t1" {
			return
		}
	}
	t.Fatalf("60.00 must satisfy min_amount 60.00: %+v", res.Transactions)
}

func TestSearchTotalFoundCoversTruncatedMatches(t *testing.T) {
	store := memory.New()
	seedSearch(store)

	res := search(t, store, core.SearchCriteria{Merchant: "uber", Limit: 2})
	if res.TransactionCount != 4 {
		t.Fatalf("match count before truncation: got %d", res.TransactionCount)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("returned page must respect limit, got %d", len(res.Transactions))
	}
	if res.TotalFound.Cents != 6000+12550+4000+8000 {
		t.Fatalf("total must cover all matches, got %d", res.TotalFound.Cents)
	}
}

func TestSearchSortDescendingStable(t *testing.T) {
	store := memory.New()
	seedSearch(store)

	res := search(t, store, core.SearchCriteria{})
	dates := make([]string, len(res.Transactions))
	for i, tx := range res.Transactions {
		dates[i] = tx.Date
	}
	// Newest first; t2 and t3 share a date and keep scan order.
	wantIDs := []string{"t4", "t2", "t3", "t1", "t5"}
	for i, tx := range res.Transactions {
		if tx.ID != wantIDs[i] {
			t.Fatalf("order: got %v at %d, want %v (dates %v)", tx.ID, i, wantIDs[i], dates)
		}
	}
}

func TestSearchMonthAndDateBothApply(t *testing.T) {
	store := memory.New()
	seedSearch(store)

	res := search(t, store, core.SearchCriteria{Month: "2026-02", Date: "2026-02-03"})
	if res.TransactionCount != 2 {
		t.Fatalf("expected 2 matches on 2026-02-03, got %d", res.TransactionCount)
	}

	// Contradictory month and date never match.
	res = search(t, store, core.SearchCriteria{Month: "2026-01", Date: "2026-02-03"})
	if res.TransactionCount != 0 {
		t.Fatalf("expected no matches, got %d", res.TransactionCount)
	}
}

func TestSearchCategoryExactCaseInsensitive(t *testing.T) {
	store := memory.New()
	seedSearch(store)

	res := search(t, store, core.SearchCriteria{Category: "eating out"})
	if res.TransactionCount != 2 {
		t.Fatalf("expected 2 matches, got %d", res.TransactionCount)
	}

	// Substrings of a category are not exact matches.
	res = search(t, store, core.SearchCriteria{Category: "Eating"})
	if res.TransactionCount != 0 {
		t.Fatalf("category match must be exact, got %d", res.TransactionCount)
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	store := memory.New()
	rows := make([][]string, 0, 15)
	for i := 0; i < 15; i++ {
		rows = append(rows, txRow("id", "2026-02-01", "SHOP", "10.00", "Groceries"))
	}
	store.Seed(tabular.RangeTransactions, rows)

	res := search(t, store, core.SearchCriteria{})
	if len(res.Transactions) != DefaultSearchLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultSearchLimit, len(res.Transactions))
	}
	if res.TransactionCount != 15 {
		t.Fatalf("count must precede truncation, got %d", res.TransactionCount)
	}
}

func TestSearchSkipsMalformedRows(t *testing.T) {
	store := memory.New()
	store.Seed(tabular.RangeTransactions, [][]string{
		{"halfrow", "2026-02-01"},
		txRow("ok", "2026-02-01", "SHOP", "10.00", "Groceries"),
	})
	res := search(t, store, core.SearchCriteria{})
	if res.TransactionCount != 1 || res.Transactions[0].ID != "ok" {
		t.Fatalf("malformed rows must be skipped: %+v", res)
	}
}

func TestSearchQuerySummary(t *testing.T) {
	store := memory.New()
	seedSearch(store)
	res := search(t, store, core.SearchCriteria{Merchant: "uber"})
	if res.QuerySummary != "Found 4 transactions" {
		t.Fatalf("unexpected summary %q", res.QuerySummary)
	}
}
