package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetbuddy/internal/advisor"
	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/classify"
	"budgetbuddy/internal/config"
	apphttp "budgetbuddy/internal/http"
	applog "budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/tabular"
	gsheet "budgetbuddy/internal/tabular/google"
	mem "budgetbuddy/internal/tabular/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup(slog.LevelInfo)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer cleanup()

	var classifier classify.Classifier
	if cfg.GeminiAPIKey != "" {
		gem, err := classify.NewGemini(ctx, classify.GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			logger.Error("Failed to initialize Gemini classifier", "error", err)
			os.Exit(1)
		}
		classifier = gem
		logger.Info("Gemini classifier initialized")
	} else {
		logger.Info("Gemini disabled - unmatched merchants fall back to Uncategorized")
	}

	ingestSvc := services.NewIngestService(store, classifier, cfg.DedupWindow)
	budgetSvc := services.NewBudgetService(store)
	searchSvc := services.NewSearchService(store)

	var asker apphttp.Asker
	if cfg.GeminiAPIKey != "" {
		adv, err := advisor.New(ctx, advisor.Config{APIKey: cfg.GeminiAPIKey}, budgetSvc, searchSvc)
		if err != nil {
			logger.Error("Failed to initialize advisor", "error", err)
			os.Exit(1)
		}
		asker = adv
	}

	// With a broker configured the server only enqueues events; the
	// ingest worker does the actual pipeline work.
	var publisher apphttp.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	srv := apphttp.NewServer(":"+cfg.Port, ingestSvc, budgetSvc, searchSvc, asker, publisher)

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting budgetbuddy server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// newStore builds the configured tabular backend. The cleanup closes
// whatever the backend holds open.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (tabular.Store, func(), error) {
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.NewClient(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return cli, func() {}, nil
	case "sqlite":
		repo, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
		return repo, func() { repo.Close() }, nil
	default:
		logger.Info("Initialized memory backend")
		return mem.New(), func() {}, nil
	}
}
