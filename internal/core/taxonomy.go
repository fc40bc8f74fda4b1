package core

import "strings"

// CategoryUncategorized is the forced fallback for anything outside the
// taxonomy, including unparseable classifier output.
const CategoryUncategorized = "Uncategorized"

// categories is the closed taxonomy every persisted transaction must use.
var categories = []string{
	"Groceries",
	"Eating Out",
	"Alcohol",
	"Transport & Fuel",
	"Car & Maintenance",
	"Internet & Mobile",
	"Tech & Hardware",
	"Health & Medical",
	"Personal Care",
	"Home & Utilities",
	"Entertainment",
	"Travel",
	"Subscriptions",
	"Online Shopping",
	"Clothing",
	CategoryUncategorized,
}

// Categories returns the taxonomy in its fixed order. The slice is a copy.
func Categories() []string {
	return append([]string(nil), categories...)
}

// IsCategory reports whether s is exactly a taxonomy member.
func IsCategory(s string) bool {
	for _, c := range categories {
		if c == s {
			return true
		}
	}
	return false
}

// CoerceCategory maps free-form classifier output onto the taxonomy.
// Matching ignores case and surrounding whitespace; anything that still
// does not match becomes Uncategorized.
func CoerceCategory(s string) string {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(c, s) {
			return c
		}
	}
	return CategoryUncategorized
}

// CoerceSentiment normalizes classifier sentiment output, defaulting to
// Discretionary.
func CoerceSentiment(s string) Sentiment {
	if strings.EqualFold(strings.TrimSpace(s), string(SentimentEssential)) {
		return SentimentEssential
	}
	return SentimentDiscretionary
}
