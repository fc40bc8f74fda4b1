package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/services"
)

// ingestRequest is the webhook payload shape.
type ingestRequest struct {
	DateTime string `json:"dateTime"`
	Merchant struct {
		Name     string `json:"name"`
		City     string `json:"city"`
		Category string `json:"category"`
	} `json:"merchant"`
	CentsAmount int64 `json:"centsAmount"`
}

type ingestResponse struct {
	Status      services.IngestStatus `json:"status"`
	Transaction *transactionBody      `json:"transaction,omitempty"`
}

type transactionBody struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Merchant     string  `json:"merchant"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Sentiment    string  `json:"sentiment"`
	Confidence   float64 `json:"confidence"`
	Source       string  `json:"source"`
	MerchantCity string  `json:"merchantCity"`
	RecordedAt   string  `json:"recordedAt"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondJSON(w, http.StatusMethodNotAllowed, nil)
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, core.E(core.KindValidation, "ingest", "", errors.New("malformed JSON body")))
		return
	}

	event := services.IngestEvent{
		DateTime:         req.DateTime,
		MerchantName:     req.Merchant.Name,
		MerchantCity:     req.Merchant.City,
		MerchantCategory: req.Merchant.Category,
		CentsAmount:      req.CentsAmount,
	}

	// With a queue configured the endpoint is just the webhook edge: the
	// ingest worker picks the event up asynchronously.
	if s.publisher != nil {
		if err := event.Validate(); err != nil {
			respondError(w, r, core.E(core.KindValidation, "ingest", "", err))
			return
		}
		if err := s.publisher.PublishTransactionEvent(r.Context(), event); err != nil {
			respondError(w, r, core.E(core.KindStore, "ingest", "amqp", err))
			return
		}
		respondJSON(w, http.StatusAccepted, ingestResponse{Status: "queued"})
		return
	}

	result, err := s.ingest.Ingest(r.Context(), event)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := ingestResponse{Status: result.Status}
	status := http.StatusOK // duplicate: idempotent success
	if result.Status == services.StatusRecorded {
		status = http.StatusCreated
		resp.Transaction = toTransactionBody(result.Transaction)
	}
	respondJSON(w, status, resp)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondJSON(w, http.StatusMethodNotAllowed, nil)
		return
	}

	overview, err := s.budget.ComputeStatus(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows := make([]map[string]any, 0, len(overview.Rows))
	for _, row := range overview.Rows {
		rows = append(rows, map[string]any{
			"category":  row.Category,
			"target":    row.Target.Units(),
			"actual":    row.Actual.Units(),
			"remaining": row.Remaining.Units(),
			"status":    row.Status,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"month":          overview.Month,
		"totalTarget":    overview.TotalTarget.Units(),
		"totalActual":    overview.TotalActual.Units(),
		"totalRemaining": overview.TotalRemaining.Units(),
		"rows":           rows,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondJSON(w, http.StatusMethodNotAllowed, nil)
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.search.Search(r.Context(), criteria)
	if err != nil {
		respondError(w, r, err)
		return
	}

	transactions := make([]*transactionBody, 0, len(result.Transactions))
	for i := range result.Transactions {
		transactions = append(transactions, toTransactionBody(&result.Transactions[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"query_summary":     result.QuerySummary,
		"total_found":       result.TotalFound.Units(),
		"transaction_count": result.TransactionCount,
		"transactions":      transactions,
	})
}

func criteriaFromQuery(r *http.Request) (core.SearchCriteria, error) {
	q := r.URL.Query()
	criteria := core.SearchCriteria{
		Merchant: q.Get("merchant"),
		Category: q.Get("category"),
		Month:    q.Get("month"),
		Date:     q.Get("date"),
	}
	if raw := strings.TrimSpace(q.Get("min_amount")); raw != "" {
		cents, err := core.ParseDecimalToCents(raw)
		if err != nil {
			return core.SearchCriteria{}, core.E(core.KindValidation, "search", "",
				errors.New("min_amount must be a positive decimal"))
		}
		criteria.MinAmount = core.Money{Cents: cents}
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return core.SearchCriteria{}, core.E(core.KindValidation, "search", "",
				errors.New("limit must be a positive integer"))
		}
		criteria.Limit = limit
	}
	return criteria, nil
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondJSON(w, http.StatusMethodNotAllowed, nil)
		return
	}
	if s.asker == nil {
		respondError(w, r, core.E(core.KindConfig, "ask", "classifier", errors.New("advisor is not configured")))
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, core.E(core.KindValidation, "ask", "", errors.New("malformed JSON body")))
		return
	}

	answer, err := s.asker.Ask(r.Context(), req.Question)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func toTransactionBody(tx *core.Transaction) *transactionBody {
	if tx == nil {
		return nil
	}
	return &transactionBody{
		ID:           tx.ID,
		Date:         tx.Date,
		Merchant:     tx.Merchant,
		Amount:       tx.Amount.Units(),
		Category:     tx.Category,
		Sentiment:    string(tx.Sentiment),
		Confidence:   tx.Confidence,
		Source:       string(tx.Source),
		MerchantCity: tx.MerchantCity,
		RecordedAt:   tx.RecordedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
