package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"budgetbuddy/internal/classify"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/tabular"
	"budgetbuddy/internal/tabular/memory"
)

type stubClassifier struct {
	cls   core.Classification
	err   error
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, _ classify.Request) (core.Classification, error) {
	s.calls++
	return s.cls, s.err
}

type failingStore struct {
	*memory.Store
	failAppend bool
}

func (f *failingStore) AppendRow(ctx context.Context, rangeID string, row []string) error {
	if f.failAppend {
		return core.E(core.KindStore, "append_row", "tabular", errors.New("unreachable"))
	}
	return f.Store.AppendRow(ctx, rangeID, row)
}

func event() IngestEvent {
	return IngestEvent{
		DateTime:         "2026-02-11T08:30:00",
		MerchantName:     "UBER EATS JHB",
		MerchantCity:     "Johannesburg",
		MerchantCategory: "Restaurants",
		CentsAmount:      12550,
	}
}

func TestIngestThenDuplicate(t *testing.T) {
	store := memory.New()
	svc := NewIngestService(store, nil, 0)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, event())
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if first.Status != StatusRecorded || first.Transaction == nil {
		t.Fatalf("expected recorded, got %+v", first)
	}

	second, err := svc.Ingest(ctx, event())
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second.Status != StatusDuplicate || second.Transaction != nil {
		t.Fatalf("expected duplicate, got %+v", second)
	}

	rows, _ := store.ReadRange(ctx, tabular.RangeTransactions)
	if len(rows) != 1 {
		t.Fatalf("expected exactly one appended row, got %d", len(rows))
	}
}

func TestIngestRulePrecedence(t *testing.T) {
	store := memory.New()
	store.Seed(tabular.RangeRules, [][]string{
		{"UBER", "Transport & Fuel", "Essential"},
		{"UBER EATS", "Eating Out", "Discretionary"},
	})
	cls := &stubClassifier{}
	svc := NewIngestService(store, cls, 0)

	res, err := svc.Ingest(context.Background(), event())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	tx := res.Transaction
	if tx.Category != "Eating Out" {
		t.Fatalf("longer fragment should win: got %q", tx.Category)
	}
	if tx.Source != core.SourceMap || tx.Confidence != 1.0 {
		t.Fatalf("rule match must be MAP with confidence 1: %+v", tx)
	}
	if cls.calls != 0 {
		t.Fatalf("classifier must not be called when a rule matches")
	}
}

func TestIngestClassifierFallbackNeverFails(t *testing.T) {
	store := memory.New()
	cls := &stubClassifier{err: errors.New("model unavailable")}
	svc := NewIngestService(store, cls, 0)

	res, err := svc.Ingest(context.Background(), event())
	if err != nil {
		t.Fatalf("ingestion must not fail on classifier error, got %v", err)
	}
	tx := res.Transaction
	if res.Status != StatusRecorded || tx == nil {
		t.Fatalf("expected recorded, got %+v", res)
	}
	if tx.Category != core.CategoryUncategorized || tx.Confidence != 0.0 || tx.Source != core.SourceLLM {
		t.Fatalf("expected Uncategorized/0.0/LLM fallback, got %+v", tx)
	}
	if tx.Sentiment != core.SentimentDiscretionary {
		t.Fatalf("fallback sentiment must be Discretionary, got %q", tx.Sentiment)
	}
}

func TestIngestUsesClassifierResult(t *testing.T) {
	store := memory.New()
	cls := &stubClassifier{cls: core.Classification{
		Category:   "Entertainment",
		Sentiment:  core.SentimentDiscretionary,
		Confidence: 0.7,
	}}
	svc := NewIngestService(store, cls, 0)

	res, err := svc.Ingest(context.Background(), event())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	tx := res.Transaction
	if tx.Category != "Entertainment" || tx.Source != core.SourceLLM || tx.Confidence != 0.7 {
		t.Fatalf("unexpected classification: %+v", tx)
	}
}

func TestIngestCoercesClassifierCategory(t *testing.T) {
	store := memory.New()
	cls := &stubClassifier{cls: core.Classification{Category: "Fast Food", Sentiment: core.SentimentDiscretionary, Confidence: 0.9}}
	svc := NewIngestService(store, cls, 0)

	res, err := svc.Ingest(context.Background(), event())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Transaction.Category != core.CategoryUncategorized {
		t.Fatalf("off-taxonomy category must coerce to Uncategorized, got %q", res.Transaction.Category)
	}
}

func TestIngestValidation(t *testing.T) {
	svc := NewIngestService(memory.New(), nil, 0)
	cases := []IngestEvent{
		{MerchantName: "X", CentsAmount: 1},
		{DateTime: "2026-01-01", CentsAmount: 1},
		{DateTime: "2026-01-01", MerchantName: "X", CentsAmount: 0},
		{DateTime: "2026-01-01", MerchantName: "X", CentsAmount: -5},
	}
	for i, ev := range cases {
		_, err := svc.Ingest(context.Background(), ev)
		if !core.IsKind(err, core.KindValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestIngestStoreFailurePropagatesWithoutWrite(t *testing.T) {
	store := &failingStore{Store: memory.New(), failAppend: true}
	svc := NewIngestService(store, nil, 0)

	_, err := svc.Ingest(context.Background(), event())
	if !core.IsKind(err, core.KindStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	rows, _ := store.ReadRange(context.Background(), tabular.RangeTransactions)
	if len(rows) != 0 {
		t.Fatalf("no row may be recorded on store failure")
	}
}

func TestIngestDedupWindowIsBounded(t *testing.T) {
	store := memory.New()
	// Fill the log so the duplicate's id falls outside a window of 3.
	dup := event()
	dupID := core.TransactionID(dup.DateTime, dup.MerchantName, dup.CentsAmount)
	store.AppendRow(context.Background(), tabular.RangeTransactions,
		[]string{dupID, dup.DateTime, dup.MerchantName, "125.50", "Eating Out", "Discretionary", "1", "MAP", "JHB", "2026-02-11T00:00:00Z"})
	for i := 0; i < 3; i++ {
		store.AppendRow(context.Background(), tabular.RangeTransactions,
			[]string{fmt.Sprintf("filler_%d", i), "2026-02-11", "FILLER", "1.00", "Groceries", "Essential", "1", "MAP", "JHB", "2026-02-11T00:00:00Z"})
	}

	svc := NewIngestService(store, nil, 3)
	res, err := svc.Ingest(context.Background(), dup)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	// The stale duplicate slipped past the bounded window; this is the
	// documented tradeoff, asserted here so a change to it is deliberate.
	if res.Status != StatusRecorded {
		t.Fatalf("expected recorded outside the window, got %s", res.Status)
	}
}
