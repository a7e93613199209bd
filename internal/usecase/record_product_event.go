package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

var eventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "product_events_recorded_total",
	Help: "Product change events appended to the event store",
}, []string{"event_type", "result"})

// RecordProductEvent appends one event record per call. It does not
// deduplicate and store failures are returned to the caller.
type RecordProductEvent struct {
	store event.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewRecordProductEvent(store event.Store, ttl time.Duration) *RecordProductEvent {
	if ttl <= 0 {
		ttl = event.DefaultTTL
	}
	return &RecordProductEvent{store: store, ttl: ttl, now: time.Now}
}

func (uc *RecordProductEvent) Execute(ctx context.Context, ev event.ProductEvent) (event.Ack, error) {
	ctx, span := otel.Tracer("products-app/usecase").Start(ctx, "RecordProductEvent")
	defer span.End()

	if err := ev.Validate(); err != nil {
		eventsRecorded.WithLabelValues(string(ev.EventType), "invalid").Inc()
		return event.Ack{Message: err.Error()}, err
	}

	rec := event.NewRecord(ev, uc.now(), uc.ttl)
	span.SetAttributes(
		attribute.String("event.pk", rec.PK),
		attribute.String("event.sk", rec.SK),
	)

	if err := uc.store.Put(ctx, rec); err != nil {
		span.RecordError(err)
		eventsRecorded.WithLabelValues(string(ev.EventType), "error").Inc()
		return event.Ack{Message: err.Error()}, fmt.Errorf("record product event: %w", err)
	}

	slog.InfoContext(ctx, "product event recorded",
		"pk", rec.PK,
		"sk", rec.SK,
		"request_id", rec.RequestID,
	)
	eventsRecorded.WithLabelValues(string(ev.EventType), "ok").Inc()
	return event.Ack{ProductEventCreated: true, Message: "OK"}, nil
}

// Invoker exposes the recorder as an in-process event.Invoker.
func (uc *RecordProductEvent) Invoker() event.Invoker {
	return event.InvokerFunc(uc.Execute)
}
