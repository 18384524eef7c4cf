package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"spendwise/internal/auth"
	"spendwise/internal/backend"
	"spendwise/internal/cli"
	apphttp "spendwise/internal/http"
	applog "spendwise/internal/log"
	"spendwise/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

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

	amqpClient := cli.InitAMQP(logger, cfg)

	var alerts services.AlertPublisher
	if amqpClient != nil {
		alerts = amqpClient
		defer amqpClient.Close()
	}
	expenses := services.NewExpenseService(result.Backend, alerts)
	dashboards := services.NewDashboardService(result.Backend, cfg.TrendMonths)

	secureCookies := strings.HasPrefix(cfg.PublicAppURL, "https://")
	sessions := auth.NewSessionManager(result.Backend, cfg.SessionTTL, secureCookies)

	var provider *auth.Provider
	if cfg.OAuthEnabled() {
		provider, err = auth.NewGoogleProvider(cfg)
		if err != nil {
			logger.Error("Failed to configure OAuth provider", "error", err)
			os.Exit(1)
		}
		logger.Info("OAuth provider configured", "redirect_base", cfg.PublicAppURL)
	} else {
		logger.Warn("OAuth credentials not set, login is disabled")
	}

	srv := apphttp.NewServer(":"+cfg.Port, expenses, dashboards, sessions, provider)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Expired sessions accumulate in persistent backends; sweep hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := result.Backend.PurgeExpiredSessions(ctx); err != nil {
					logger.Error("Session purge failed", "error", err)
				} else if n > 0 {
					logger.Info("Purged expired sessions", "count", n)
				}
			}
		}
	}()

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		sctx, scancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	})

	logger.Info("Starting spendwise server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"alerts_enabled", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
