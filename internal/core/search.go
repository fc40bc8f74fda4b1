package core

// SearchCriteria are optional, conjunctive filters over the transaction
// log. Zero values mean "no constraint"; amounts are always positive, so a
// zero MinAmount never filters anything.
type SearchCriteria struct {
	Merchant  string // case-insensitive substring
	Category  string // case-insensitive exact match
	Month     string // "YYYY-MM" prefix of the date
	Date      string // full date prefix, more specific than Month
	MinAmount Money  // inclusive lower bound
	Limit     int    // result cap, defaulted by the service
}

// SearchResult is the outcome of one search. TotalFound sums the amounts
// of every match, not only the returned page, and TransactionCount is the
// match count before the limit was applied.
type SearchResult struct {
	QuerySummary     string
	TotalFound       Money
	TransactionCount int
	Transactions     []Transaction
}
