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

	"golang.org/x/sync/errgroup"

	"github.com/kolyapvp/products-app/internal/api"
	"github.com/kolyapvp/products-app/internal/application/factories/infrastructure"
	"github.com/kolyapvp/products-app/internal/config"
	"github.com/kolyapvp/products-app/internal/logging"
	"github.com/kolyapvp/products-app/internal/observability"
	"github.com/kolyapvp/products-app/internal/usecase"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.SlogLevel(), "products-api")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := observability.Setup(ctx, observability.Config{
		ServiceName:    "products-api",
		ServiceVersion: cfg.App.Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	repo, err := infraFactory.ProductRepository(ctx)
	if err != nil {
		logger.Error("failed to init product store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}

	redisClient, cache := infraFactory.ProductCache(ctx)

	admin, err := infraFactory.AdminProduct(ctx, cache)
	if err != nil {
		logger.Error("failed to init event emitter", "transport", cfg.Events.Transport, "error", err)
		os.Exit(1)
	}

	handlers := api.NewHandlers(admin, usecase.NewGetProduct(repo, cache), usecase.NewListProducts(repo))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           api.NewRouter(handlers, redisClient),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			"port", cfg.HTTP.Port,
			"store", cfg.Store.Backend,
			"events_transport", cfg.Events.Transport,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// With the direct transport the memory event store lives in this process.
	if sweeper := infraFactory.LocalSweeper(); sweeper != nil {
		g.Go(func() error { return sweeper.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server exiting")
}
