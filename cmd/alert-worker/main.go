package main

import (
	"context"
	"os"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/backend"
	"spendwise/internal/cli"
	"spendwise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting alert-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alertWorker := worker.NewAlertWorker(result.Backend)

	consumeDone := make(chan struct{})
	go func() {
		defer close(consumeDone)
		if err := amqpClient.ConsumeBudgetAlerts(ctx, alertWorker.HandleAlertMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	shutdownCtx, _ := cli.GracefulShutdown(logger, 30*time.Second, func() {
		cancel()
	})

	select {
	case <-shutdownCtx.Done():
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Give the consumer time to finish the in-flight delivery.
	select {
	case <-consumeDone:
	case <-time.After(5 * time.Second):
		logger.Warn("Consumer did not stop in time")
	}

	logger.Info("Worker shutdown complete")
}
