package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

var (
	messagesConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_events_consumed_total",
		Help: "Kafka product event messages handled by the recorder consumer",
	}, []string{"result"})
	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "product_events_consume_duration_seconds",
		Help:    "Time taken to record one consumed product event",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds product event messages to the recorder.
type Consumer struct {
	reader     messageReader
	record     event.InvokerFunc
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

func NewConsumer(cfg Config, record event.InvokerFunc) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
		Dialer: &kafka.Dialer{
			Timeout: 10 * time.Second,
		},
	})
	return newConsumer(r, record)
}

func newConsumer(r messageReader, record event.InvokerFunc) *Consumer {
	return &Consumer{
		reader:     r,
		record:     record,
		maxRetries: 3,
		backoff:    time.Second,
		logger:     slog.Default().With("component", "kafka_consumer"),
	}
}

// Run fetches until ctx is cancelled. Every message is committed once it is
// recorded, found undecodable, or has exhausted its retries.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("failed to fetch message", "error", err)
			if !sleep(ctx, c.backoff) {
				return nil
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("failed to commit message", "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	started := time.Now()
	defer func() { processingDuration.Observe(time.Since(started).Seconds()) }()

	ev, err := decode(msg.Value)
	if err != nil {
		c.logger.Error("dropping undecodable message", "offset", msg.Offset, "error", err)
		messagesConsumed.WithLabelValues("invalid").Inc()
		return
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * c.backoff
			c.logger.Info("retrying product event", "attempt", attempt, "backoff", backoff, "request_id", ev.RequestID)
			if !sleep(ctx, backoff) {
				return
			}
		}

		_, err = c.record(ctx, ev)
		if err == nil {
			messagesConsumed.WithLabelValues("recorded").Inc()
			return
		}
		if errors.Is(err, event.ErrInvalidEvent) {
			c.logger.Error("dropping invalid product event", "offset", msg.Offset, "error", err)
			messagesConsumed.WithLabelValues("invalid").Inc()
			return
		}
	}

	c.logger.Error("product event not recorded", "request_id", ev.RequestID, "offset", msg.Offset, "error", err)
	messagesConsumed.WithLabelValues("failed").Inc()
}

func decode(value []byte) (event.ProductEvent, error) {
	var env event.Message
	if err := json.Unmarshal(value, &env); err != nil {
		return event.ProductEvent{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env.ProductEvent()
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
