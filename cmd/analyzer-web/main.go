// cmd/analyzer-web/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"workflow-analyzer/internal/analysis"
	"workflow-analyzer/internal/common/config"
	commonhttp "workflow-analyzer/internal/common/http"
	"workflow-analyzer/internal/common/logger"
	"workflow-analyzer/internal/common/observability"
	"workflow-analyzer/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console", "stderr")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting workflow analyzer...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("webhook", cfg.Workflow.WebhookURL),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	analysisCfg := analysis.LoadConfig(cfg)
	handler := analysis.NewHandler(analysisCfg, commonhttp.NewClient(analysisCfg.Timeout), log, obs)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           web.NewServer(handler, cfg.UI, log).Routes(),
		ReadHeaderTimeout: config.GetDuration(cfg.Server.ReadHeaderTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Workflow analyzer stopped gracefully")
}
