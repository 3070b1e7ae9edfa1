package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"pulabudget/internal/advisor"
	"pulabudget/internal/amqp"
	"pulabudget/internal/budget"
	"pulabudget/internal/config"
	apphttp "pulabudget/internal/http"
	applog "pulabudget/internal/log"
	"pulabudget/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: "pulabudget",
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// Ledger events feed the backup worker; without a broker the app
	// simply runs without backups.
	var publisher budget.Publisher
	var amqpClient *amqp.Client
	if cfg.BackupEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Ledger backup pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Ledger backup disabled - no AMQP_URL provided")
	}

	svc, err := budget.NewService(ctx, store, publisher)
	if err != nil {
		logger.Error("Failed to load application state", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	var oracle apphttp.Oracle
	if cfg.OracleEnabled() {
		oracle = advisor.NewClient(cfg.OracleBaseURL, cfg.OracleAPIKey, logger.WithComponent("advisor").Logger)
		logger.Info("Advice oracle enabled", "base_url", cfg.OracleBaseURL)
	} else {
		logger.Info("Advice oracle disabled - no ORACLE_API_KEY provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, oracle)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting pulabudget server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
