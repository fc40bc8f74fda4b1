// Package http exposes the ingestion and query services as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	applog "budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
)

// Asker is the conversational layer; optional, the endpoint answers 503
// without one.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// EventPublisher hands incoming bank events to the queue for the ingest
// worker. Optional; without one the webhook endpoint ingests inline.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event services.IngestEvent) error
}

type Server struct {
	ingest    *services.IngestService
	budget    *services.BudgetService
	search    *services.SearchService
	asker     Asker
	publisher EventPublisher
}

// NewServer wires the handlers and returns a ready http.Server. Timeouts
// cover slow spreadsheet reads without letting a request hang forever.
func NewServer(addr string, ingest *services.IngestService, budget *services.BudgetService, search *services.SearchService, asker Asker, publisher EventPublisher) *http.Server {
	s := &Server{ingest: ingest, budget: budget, search: search, asker: asker, publisher: publisher}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/transactions", s.handleIngest)
	mux.HandleFunc("/api/budget", s.handleBudgetStatus)
	mux.HandleFunc("/api/transactions/search", s.handleSearch)
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/healthz", s.handleHealth)

	return &http.Server{
		Addr:           addr,
		Handler:        applog.Middleware(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
