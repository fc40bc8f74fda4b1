package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:         "2026-02-11_WOOLWORTHS_4500",
		Date:       "2026-02-11",
		Merchant:   "Woolworths",
		Amount:     Money{Cents: 4500},
		Category:   "Groceries",
		Sentiment:  SentimentEssential,
		Confidence: 1.0,
		Source:     SourceMap,
		RecordedAt: time.Now(),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		func() Transaction { c := good; c.Date = " "; return c }(),
		func() Transaction { c := good; c.Merchant = ""; return c }(),
		func() Transaction { c := good; c.Amount = Money{}; return c }(),
		func() Transaction { c := good; c.Category = "Gambling"; return c }(),
		func() Transaction { c := good; c.Sentiment = "Neutral"; return c }(),
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
