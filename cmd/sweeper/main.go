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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kolyapvp/products-app/internal/application/factories/infrastructure"
	"github.com/kolyapvp/products-app/internal/config"
	"github.com/kolyapvp/products-app/internal/logging"
	"github.com/kolyapvp/products-app/internal/worker"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.SlogLevel(), "product-events-sweeper")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	purger, err := infraFactory.Purger(ctx)
	if errors.Is(err, infrastructure.ErrNoSweepNeeded) {
		logger.Info("nothing to sweep", "backend", cfg.Store.Backend)
		return
	}
	if err != nil {
		logger.Error("failed to init event store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.Metrics.Port,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("sweeper metrics listening", "port", cfg.Metrics.Port)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	defer metricsSrv.Close()

	if err := worker.NewSweeper(purger, cfg.Events.SweepInterval).Run(ctx); err != nil {
		logger.Error("sweeper stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("sweeper exiting")
}
