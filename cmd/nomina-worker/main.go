package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nomina/internal/amqp"
	"nomina/internal/config"
	"nomina/internal/source"
	"nomina/internal/source/csvhttp"
	gsheet "nomina/internal/source/google"
	"nomina/internal/storage"
	"nomina/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting nomina-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker mirrors an upstream source into the local snapshot,
	// so it needs a real upstream: Sheets when configured, otherwise
	// the CSV exports.
	var upstream source.Reader
	switch {
	case cfg.GoogleSpreadsheetID != "":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		upstream = cli
		logger.Info("Google Sheets upstream initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	case cfg.CSVUsersURL != "" && cfg.CSVInvoicesURL != "":
		upstream = csvhttp.New(cfg.CSVUsersURL, cfg.CSVInvoicesURL, cfg.CSVProxies)
		logger.Info("CSV export upstream initialized", "proxies", len(cfg.CSVProxies))
	default:
		logger.Error("No upstream configured: set GOOGLE_SPREADSHEET_ID or CSV export URLs")
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(sqliteRepo, upstream, cfg.SyncInterval)

	// On startup, refresh the snapshot if it is missing or stale.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		if err := amqpClient.ConsumeSnapshotSync(ctx, func(msg *amqp.SnapshotSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		}); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic refresh covers missed messages.
	go func() {
		if err := syncWorker.RunPeriodic(ctx, cfg.SyncInterval); err != nil && err != context.Canceled {
			logger.Error("Periodic sync stopped", "error", err)
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight work a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
