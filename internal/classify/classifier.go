// Package classify provides the fallback category classifier used when no
// merchant rule matches. The port returns hard errors; degrading to the
// Uncategorized fallback is the ingestion service's job.
package classify

import (
	"context"

	"budgetbuddy/internal/core"
)

// Request is the fixed classifier contract: the (cleaned) merchant name,
// the card network's own merchant category as a hint, and the amount.
type Request struct {
	Merchant     string
	MerchantHint string
	Amount       core.Money
}

type Classifier interface {
	Classify(ctx context.Context, req Request) (core.Classification, error)
}
