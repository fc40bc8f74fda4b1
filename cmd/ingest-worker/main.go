package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/classify"
	"budgetbuddy/internal/config"
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
	logger.Info("Starting ingest-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the ingest worker")
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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	go func() {
		handler := func(ctx context.Context, msg *amqp.TransactionEventMessage) error {
			result, err := ingestSvc.Ingest(ctx, msg.Event())
			if err != nil {
				return err
			}
			if result.Status == services.StatusDuplicate {
				logger.Info("Skipped duplicate event", "merchant", msg.Merchant.Name)
			} else {
				logger.Info("Recorded transaction",
					"id", result.Transaction.ID,
					"category", result.Transaction.Category,
					"source", result.Transaction.Source)
			}
			return nil
		}
		if err := amqpClient.ConsumeTransactionEvents(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker stopped")
}

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
