package advisor

import (
	"google.golang.org/genai"

	"budgetbuddy/internal/core"
)

func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "getBudgetStatus",
			Description: "Get budget targets vs actuals for a specific month.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"month": {
						Type:        genai.TypeString,
						Description: "The month to check in YYYY-MM format (e.g., 2026-02)",
					},
				},
				Required: []string{"month"},
			},
		},
		{
			Name:        "searchTransactions",
			Description: "Search transaction history for specific merchants, categories, dates or amounts.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"merchant": {
						Type:        genai.TypeString,
						Description: "Name of the merchant (e.g., Uber)",
					},
					"category": {
						Type:        genai.TypeString,
						Description: "The strict category name.",
						Enum:        core.Categories(),
					},
					"month": {
						Type:        genai.TypeString,
						Description: "YYYY-MM format",
					},
					"date": {
						Type:        genai.TypeString,
						Description: `Specific date in YYYY-MM-DD format (e.g. 2026-02-11). Use this for "today", "yesterday", or specific days.`,
					},
					"min_amount": {
						Type:        genai.TypeNumber,
						Description: "Minimum amount filter",
					},
					"limit": {
						Type:        genai.TypeNumber,
						Description: "Max results to return",
					},
				},
			},
		},
	}
}

// budgetView and searchView shape service results for the model: amounts
// in major units, statuses as plain strings.
type (
	budgetRowView struct {
		Category  string  `json:"category"`
		Target    float64 `json:"target"`
		Actual    float64 `json:"actual"`
		Remaining float64 `json:"remaining"`
		Status    string  `json:"status"`
	}

	budgetOverviewView struct {
		Month          string          `json:"month"`
		TotalTarget    float64         `json:"totalTarget"`
		TotalActual    float64         `json:"totalActual"`
		TotalRemaining float64         `json:"totalRemaining"`
		Rows           []budgetRowView `json:"rows"`
	}

	transactionView struct {
		Date     string  `json:"date"`
		Merchant string  `json:"merchant"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}

	searchResultView struct {
		QuerySummary     string            `json:"query_summary"`
		TotalFound       float64           `json:"total_found"`
		TransactionCount int               `json:"transaction_count"`
		Transactions     []transactionView `json:"transactions"`
	}
)

func budgetView(ov core.BudgetOverview) budgetOverviewView {
	view := budgetOverviewView{
		Month:          ov.Month,
		TotalTarget:    ov.TotalTarget.Units(),
		TotalActual:    ov.TotalActual.Units(),
		TotalRemaining: ov.TotalRemaining.Units(),
		Rows:           make([]budgetRowView, 0, len(ov.Rows)),
	}
	for _, row := range ov.Rows {
		view.Rows = append(view.Rows, budgetRowView{
			Category:  row.Category,
			Target:    row.Target.Units(),
			Actual:    row.Actual.Units(),
			Remaining: row.Remaining.Units(),
			Status:    string(row.Status),
		})
	}
	return view
}

func searchView(res core.SearchResult) searchResultView {
	view := searchResultView{
		QuerySummary:     res.QuerySummary,
		TotalFound:       res.TotalFound.Units(),
		TransactionCount: res.TransactionCount,
		Transactions:     make([]transactionView, 0, len(res.Transactions)),
	}
	for _, tx := range res.Transactions {
		view.Transactions = append(view.Transactions, transactionView{
			Date:     tx.Date,
			Merchant: tx.Merchant,
			Amount:   tx.Amount.Units(),
			Category: tx.Category,
		})
	}
	return view
}
