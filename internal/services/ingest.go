// Package services orchestrates the transaction pipeline and the query
// layer over the tabular store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgetbuddy/internal/classify"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/tabular"
)

const (
	StatusRecorded  IngestStatus = "recorded"
	StatusDuplicate IngestStatus = "duplicate"

	// DefaultDedupWindow bounds how many recent ids the duplicate check
	// inspects. Duplicates older than the window are not caught; that is
	// the accepted cost/correctness tradeoff for keeping reads bounded.
	DefaultDedupWindow = 50
)

type (
	IngestStatus string

	// IngestEvent is one incoming transaction as delivered by the bank
	// webhook transport or the event queue.
	IngestEvent struct {
		DateTime         string
		MerchantName     string
		MerchantCity     string
		MerchantCategory string // network-provided hint, free-form
		CentsAmount      int64
	}

	IngestResult struct {
		Status      IngestStatus
		Transaction *core.Transaction
	}

	// IngestService runs dedup, rule matching, classifier fallback and
	// persistence for one event at a time. It holds no mutable state, so
	// one instance serves concurrent requests.
	//
	// The dedup check is read-then-append without a store transaction:
	// two near-simultaneous submissions of the same event can both pass
	// the check and both land in the log. That matches the collaborator's
	// guarantees and is accepted rather than papered over.
	IngestService struct {
		store       tabular.Store
		classifier  classify.Classifier // nil means always fall back
		dedupWindow int
		now         func() time.Time
	}
)

func (e IngestEvent) Validate() error {
	if strings.TrimSpace(e.DateTime) == "" {
		return core.ErrEmptyDate
	}
	if strings.TrimSpace(e.MerchantName) == "" {
		return core.ErrEmptyMerchant
	}
	if e.CentsAmount <= 0 {
		return core.ErrInvalidAmount
	}
	return nil
}

func NewIngestService(store tabular.Store, classifier classify.Classifier, dedupWindow int) *IngestService {
	if dedupWindow <= 0 {
		dedupWindow = DefaultDedupWindow
	}
	return &IngestService{
		store:       store,
		classifier:  classifier,
		dedupWindow: dedupWindow,
		now:         time.Now,
	}
}

// Ingest processes one event: exactly one append on record, none on
// duplicate or store failure. Classifier failures never fail ingestion.
func (s *IngestService) Ingest(ctx context.Context, event IngestEvent) (IngestResult, error) {
	if err := event.Validate(); err != nil {
		return IngestResult{}, core.E(core.KindValidation, "ingest", "", err)
	}

	id := core.TransactionID(event.DateTime, event.MerchantName, event.CentsAmount)

	// One batched read covers both the dedup window and the rule table;
	// the two have no ordering dependency.
	batch, err := s.store.BatchRead(ctx, tabular.RangeTransactionIDs, tabular.RangeRules)
	if err != nil {
		return IngestResult{}, wrapStore("ingest", err)
	}
	idRows, ruleRows := batch[0], batch[1]

	if s.seenRecently(id, idRows) {
		slog.InfoContext(ctx, "Duplicate transaction, not recorded",
			"component", "ingest", "transaction_id", id, "merchant", event.MerchantName)
		return IngestResult{Status: StatusDuplicate}, nil
	}

	cls := s.classifyEvent(ctx, event, tabular.ParseRules(ruleRows))

	tx := core.Transaction{
		ID:           id,
		Date:         event.DateTime,
		Merchant:     event.MerchantName,
		Amount:       core.Money{Cents: event.CentsAmount},
		Category:     cls.Category,
		Sentiment:    cls.Sentiment,
		Confidence:   cls.Confidence,
		Source:       cls.Source,
		MerchantCity: merchantCityOrUnknown(event.MerchantCity),
		RecordedAt:   s.now().UTC(),
	}

	if err := s.store.AppendRow(ctx, tabular.RangeTransactions, tabular.TransactionRow(tx)); err != nil {
		return IngestResult{}, wrapStore("ingest", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"component", "ingest",
		"transaction_id", tx.ID,
		"merchant", tx.Merchant,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category,
		"source", tx.Source,
		"confidence", tx.Confidence)

	return IngestResult{Status: StatusRecorded, Transaction: &tx}, nil
}

// seenRecently checks the tail of the id column, bounded by the window.
func (s *IngestService) seenRecently(id string, idRows [][]string) bool {
	start := len(idRows) - s.dedupWindow
	if start < 0 {
		start = 0
	}
	for _, row := range idRows[start:] {
		if len(row) > 0 && row[0] == id {
			return true
		}
	}
	return false
}

// classifyEvent tries the rule table first, then the classifier. Any
// classifier failure degrades to the Uncategorized fallback so ingestion
// availability never depends on the model.
func (s *IngestService) classifyEvent(ctx context.Context, event IngestEvent, rules []core.CategoryRule) core.Classification {
	if rule := core.MatchRule(event.MerchantName, rules); rule != nil {
		return core.Classification{
			Category:   core.CoerceCategory(rule.Category),
			Sentiment:  core.CoerceSentiment(string(rule.Sentiment)),
			Confidence: 1.0,
			Source:     core.SourceMap,
		}
	}

	if s.classifier != nil {
		cls, err := s.classifier.Classify(ctx, classify.Request{
			Merchant:     strings.ToUpper(event.MerchantName),
			MerchantHint: merchantHintOrUnknown(event.MerchantCategory),
			Amount:       core.Money{Cents: event.CentsAmount},
		})
		if err == nil {
			cls.Category = core.CoerceCategory(cls.Category)
			cls.Source = core.SourceLLM
			return cls
		}
		slog.WarnContext(ctx, "Classifier failed, using fallback",
			"component", "ingest", "merchant", event.MerchantName, "error", err)
	}

	return core.Classification{
		Category:   core.CategoryUncategorized,
		Sentiment:  core.SentimentDiscretionary,
		Confidence: 0.0,
		Source:     core.SourceLLM,
	}
}

func merchantCityOrUnknown(city string) string {
	if strings.TrimSpace(city) == "" {
		return "Unknown"
	}
	return city
}

func merchantHintOrUnknown(hint string) string {
	if strings.TrimSpace(hint) == "" {
		return "Unknown"
	}
	return hint
}

// wrapStore keeps an existing kinded error intact and tags plain ones.
func wrapStore(op string, err error) error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return core.E(core.KindStore, op, "tabular", err)
}
