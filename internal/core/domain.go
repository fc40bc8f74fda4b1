package core

import (
	"errors"
	"strings"
	"time"
)

const (
	SentimentEssential     Sentiment = "Essential"
	SentimentDiscretionary Sentiment = "Discretionary"

	// SourceMap marks a category that came from the deterministic merchant
	// lookup table; SourceLLM marks the classifier fallback.
	SourceMap Source = "MAP"
	SourceLLM Source = "LLM"
)

type (
	Sentiment string

	Source string

	// Transaction is one persisted row of the raw transaction log. Rows are
	// append-only: once recorded they are never mutated or deleted.
	Transaction struct {
		ID           string
		Date         string // ISO-8601 date or datetime, as submitted
		Merchant     string // raw display name
		Amount       Money
		Category     string
		Sentiment    Sentiment
		Confidence   float64
		Source       Source
		MerchantCity string
		RecordedAt   time.Time
	}

	// CategoryRule maps a merchant-name fragment to a category. The rule
	// table is externally maintained; matching is substring-based,
	// longest fragment first.
	CategoryRule struct {
		Fragment  string
		Category  string
		Sentiment Sentiment
	}

	// Classification is the category decision for one transaction, either
	// from a rule (confidence 1.0) or from the fallback classifier.
	Classification struct {
		Category   string
		Sentiment  Sentiment
		Confidence float64
		Source     Source
	}
)

var (
	ErrEmptyDate     = errors.New("empty date")
	ErrEmptyMerchant = errors.New("empty merchant")
	ErrInvalidAmount = errors.New("invalid amount")
)

func (s Sentiment) Valid() bool {
	return s == SentimentEssential || s == SentimentDiscretionary
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Date) == "" {
		return ErrEmptyDate
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !IsCategory(t.Category) {
		return errors.New("category outside taxonomy: " + t.Category)
	}
	if !t.Sentiment.Valid() {
		return errors.New("invalid sentiment: " + string(t.Sentiment))
	}
	return nil
}
