package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_events_expired_total",
		Help: "Event records removed after their TTL elapsed",
	})
	sweepErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_events_sweep_errors_total",
		Help: "Failed expiry sweeps",
	})
)

// Purger removes event records whose expiry is at or before now.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper emulates store-side TTL for event stores that lack one.
type Sweeper struct {
	purger   Purger
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewSweeper(purger Purger, interval time.Duration) *Sweeper {
	return &Sweeper{
		purger:   purger,
		interval: interval,
		now:      time.Now,
		logger:   slog.Default().With("component", "sweeper"),
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one purge and returns the number of records removed.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	n, err := s.purger.PurgeExpired(ctx, s.now())
	if err != nil {
		sweepErrors.Inc()
		s.logger.Error("failed to purge expired events", "error", err)
		return 0
	}
	if n > 0 {
		eventsExpired.Add(float64(n))
		s.logger.Info("purged expired events", "count", n)
	}
	return n
}
