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
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.SlogLevel(), "product-events")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := observability.Setup(ctx, observability.Config{
		ServiceName:    "product-events",
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

	recorder, err := infraFactory.Recorder(ctx)
	if err != nil {
		logger.Error("failed to init event store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.EventsPort,
		Handler:           api.NewEventsRouter(api.NewEventHandlers(recorder)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("events server starting", "port", cfg.HTTP.EventsPort, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Events.Transport == config.TransportKafka {
		consumer := infraFactory.KafkaConsumer(recorder)
		defer consumer.Close()

		g.Go(func() error {
			logger.Info("kafka consumer started", "topic", cfg.Kafka.Topic, "group_id", cfg.Kafka.GroupID)
			return consumer.Run(gctx)
		})
	}

	if sweeper := infraFactory.LocalSweeper(); sweeper != nil {
		g.Go(func() error { return sweeper.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("events service stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("events service exiting")
}
