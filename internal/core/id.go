package core

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeMerchant upper-cases the merchant name and strips everything
// that is not a letter or digit. "Uber Eats ZA" and "UBER*EATS-ZA" collapse
// to the same key.
func NormalizeMerchant(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// TransactionID derives the deduplication key for an incoming event.
// Identical (date, merchant, amount) triples always produce the same id,
// so resubmission of the same event is detectable by id equality alone.
func TransactionID(date, merchant string, cents int64) string {
	return fmt.Sprintf("%s_%s_%d", date, NormalizeMerchant(merchant), cents)
}
