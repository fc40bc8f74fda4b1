package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"budgetbuddy/internal/core"
)

// Column layout of the raw transaction log, in append order.
const (
	colID = iota
	colDate
	colMerchant
	colAmount
	colCategory
	colSentiment
	colConfidence
	colSource
	colCity
	colRecordedAt

	transactionColumns = 10
)

// TransactionRow encodes a transaction as one spreadsheet row.
func TransactionRow(t core.Transaction) []string {
	return []string{
		t.ID,
		t.Date,
		t.Merchant,
		t.Amount.String(),
		t.Category,
		string(t.Sentiment),
		strconv.FormatFloat(t.Confidence, 'f', -1, 64),
		string(t.Source),
		t.MerchantCity,
		t.RecordedAt.UTC().Format(time.RFC3339),
	}
}

// ParseTransaction decodes one row of the raw log. Rows written by other
// tools may be ragged; anything shorter than the date/merchant/amount/
// category prefix is rejected, trailing columns degrade to zero values.
func ParseTransaction(row []string) (core.Transaction, error) {
	if len(row) < colCategory+1 {
		return core.Transaction{}, fmt.Errorf("transaction row has %d columns, need at least %d", len(row), colCategory+1)
	}
	cents, ok := core.ParseLooseAmount(row[colAmount])
	if !ok {
		return core.Transaction{}, fmt.Errorf("unparseable amount %q", row[colAmount])
	}
	t := core.Transaction{
		ID:       strings.TrimSpace(row[colID]),
		Date:     strings.TrimSpace(row[colDate]),
		Merchant: strings.TrimSpace(row[colMerchant]),
		Amount:   core.Money{Cents: cents},
		Category: strings.TrimSpace(row[colCategory]),
	}
	if t.Date == "" {
		return core.Transaction{}, errors.New("transaction row missing date")
	}
	if t.Category == "" {
		t.Category = core.CategoryUncategorized
	}
	if len(row) > colSentiment {
		t.Sentiment = core.Sentiment(strings.TrimSpace(row[colSentiment]))
	}
	if len(row) > colConfidence {
		t.Confidence, _ = strconv.ParseFloat(strings.TrimSpace(row[colConfidence]), 64)
	}
	if len(row) > colSource {
		t.Source = core.Source(strings.TrimSpace(row[colSource]))
	}
	if len(row) > colCity {
		t.MerchantCity = strings.TrimSpace(row[colCity])
	}
	if len(row) > colRecordedAt {
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[colRecordedAt])); err == nil {
			t.RecordedAt = ts
		}
	}
	return t, nil
}

// ParseRule decodes one row of the merchant lookup table.
func ParseRule(row []string) (core.CategoryRule, error) {
	if len(row) < 3 {
		return core.CategoryRule{}, fmt.Errorf("rule row has %d columns, need 3", len(row))
	}
	r := core.CategoryRule{
		Fragment:  strings.TrimSpace(row[0]),
		Category:  strings.TrimSpace(row[1]),
		Sentiment: core.Sentiment(strings.TrimSpace(row[2])),
	}
	if r.Fragment == "" {
		return core.CategoryRule{}, errors.New("rule row missing merchant fragment")
	}
	return r, nil
}

// ParseRules decodes the whole rule table, dropping malformed rows. The
// table is human-maintained; a bad row must not break ingestion.
func ParseRules(rows [][]string) []core.CategoryRule {
	out := make([]core.CategoryRule, 0, len(rows))
	for _, row := range rows {
		r, err := ParseRule(row)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseBudgetTarget decodes one row of the targets table.
func ParseBudgetTarget(row []string) (core.BudgetTarget, error) {
	if len(row) < 2 {
		return core.BudgetTarget{}, fmt.Errorf("budget row has %d columns, need 2", len(row))
	}
	category := strings.TrimSpace(row[0])
	if category == "" {
		return core.BudgetTarget{}, errors.New("budget row missing category")
	}
	cents, ok := core.ParseLooseAmount(row[1])
	if !ok {
		return core.BudgetTarget{}, fmt.Errorf("unparseable target %q", row[1])
	}
	return core.BudgetTarget{Category: category, Target: core.Money{Cents: cents}}, nil
}
