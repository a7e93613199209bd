package usecase

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/domain/product"
)

var eventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "product_events_emitted_total",
	Help: "Product change events handed to the recorder, by type and outcome",
}, []string{"event_type", "outcome"})

// Outcome is the result of a best-effort emission. Callers log it and move on.
type Outcome struct {
	Delivered bool
	Message   string
	Err       error
}

// EmitProductEvent builds a ProductEvent from a mutation result and hands it
// to the recorder synchronously.
type EmitProductEvent struct {
	invoker event.Invoker
	timeout time.Duration
}

func NewEmitProductEvent(invoker event.Invoker, timeout time.Duration) *EmitProductEvent {
	return &EmitProductEvent{invoker: invoker, timeout: timeout}
}

func (uc *EmitProductEvent) Emit(ctx context.Context, p product.Product, t event.Type, email, requestID string) Outcome {
	ctx, span := otel.Tracer("products-app/usecase").Start(ctx, "EmitProductEvent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", p.ID),
		attribute.String("event.type", string(t)),
	)

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	ev := event.ProductEvent{
		EventType:    t,
		ProductID:    p.ID,
		ProductCode:  p.Code,
		ProductPrice: p.Price,
		Email:        email,
		RequestID:    requestID,
	}

	ack, err := uc.invoker.Invoke(ctx, ev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		eventsEmitted.WithLabelValues(string(t), "failed").Inc()
		return Outcome{Message: err.Error(), Err: err}
	}
	if !ack.ProductEventCreated {
		span.SetStatus(codes.Error, ack.Message)
		eventsEmitted.WithLabelValues(string(t), "rejected").Inc()
		return Outcome{Message: ack.Message}
	}

	eventsEmitted.WithLabelValues(string(t), "delivered").Inc()
	return Outcome{Delivered: true, Message: ack.Message}
}
