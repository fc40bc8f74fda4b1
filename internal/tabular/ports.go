// Package tabular defines the outbound port for the spreadsheet-backed
// store: named rectangular ranges of string rows, read or appended to but
// never updated in place. Concurrent appends are not atomic; the ingestion
// service documents the resulting dedup race.
package tabular

import "context"

// Logical range ids. Adapters map these onto their own addressing (A1
// notation for Sheets, tables for SQLite).
const (
	RangeTransactions   = "raw_transactions"
	RangeTransactionIDs = "raw_transaction_ids" // id column of the log only
	RangeRules          = "lookup_map"
	RangeBudget         = "budget"
	RangeMonthlyStats   = "monthly_stats"
)

type (
	Reader interface {
		// ReadRange returns all data rows of a logical range. Ranges whose
		// header carries data (monthly_stats month labels) include it as
		// row zero; all others exclude headers.
		ReadRange(ctx context.Context, rangeID string) ([][]string, error)

		// BatchRead fetches several ranges in one round trip where the
		// backend supports it. Results are positional.
		BatchRead(ctx context.Context, rangeIDs ...string) ([][][]string, error)
	}

	Appender interface {
		AppendRow(ctx context.Context, rangeID string, row []string) error
	}

	Store interface {
		Reader
		Appender
	}
)
