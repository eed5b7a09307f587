package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"salecast/internal/amqp"
	"salecast/internal/config"
	"salecast/internal/forecast"
	apphttp "salecast/internal/http"
	applog "salecast/internal/log"
	"salecast/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup(slog.LevelInfo)
	logger.Info("Starting salecast")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Batch events are optional; without AMQP the pipeline just persists.
	var publisher forecast.BatchPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without batch events", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	generator := forecast.NewGenerator(repo, publisher, cfg.AverageDaysBack, logger)
	scheduler := forecast.NewScheduler(generator, time.Duration(cfg.ForecastIntervalHours)*time.Hour, logger)
	server := apphttp.NewServer(":"+cfg.Port, forecast.NewQueryService(repo, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// The forecast loop starts before the server accepts requests and
	// keeps running until shutdown; failures never cross its boundary.
	g.Go(func() error {
		scheduler.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", "port", cfg.Port,
			"forecast_interval_hours", cfg.ForecastIntervalHours,
			"average_days_back", cfg.AverageDaysBack)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Service error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
