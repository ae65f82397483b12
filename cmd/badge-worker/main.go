package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finfamily/internal/config"
	"finfamily/internal/events"
	"finfamily/internal/ledger"
	"finfamily/internal/ledger/memory"
	applog "finfamily/internal/log"
	"finfamily/internal/services"
	"finfamily/internal/storage"
	"finfamily/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting badge-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	var store ledger.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
	default:
		store = memory.New()
		logger.Warn("Using in-memory store, badge state will not survive restarts")
	}

	eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer eventsClient.Close()

	gamification := services.NewGamificationService(store, eventsClient)
	badgeWorker := worker.NewBadgeWorker(gamification, store, cfg.SweepConcurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerLogger := logger.WithComponent(applog.ComponentWorker)

	// On startup, sweep every user once to pick up anything missed while down
	workerLogger.Info("Performing startup badge sweep")
	if err := badgeWorker.SweepAllUsers(ctx); err != nil {
		workerLogger.Error("Startup badge sweep failed", applog.FieldError, err)
		// Don't exit, the consume loop and periodic sweep still run
	}

	go func() {
		handler := func(msg *events.LedgerChangedMessage) error {
			return badgeWorker.HandleLedgerChange(ctx, msg)
		}
		if err := eventsClient.ConsumeLedgerChanges(ctx, handler); err != nil {
			if err != context.Canceled {
				workerLogger.Error("Message consumption failed", applog.FieldError, err)
			}
			cancel()
		}
	}()

	// Periodic sweep catches users whose change messages were lost
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := badgeWorker.SweepAllUsers(ctx); err != nil {
					workerLogger.Error("Periodic badge sweep failed", applog.FieldError, err)
				}
			}
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

	logger.Info("Shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
