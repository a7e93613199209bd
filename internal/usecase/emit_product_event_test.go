package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/domain/product"
)

func TestEmitProductEventBuildsSnapshot(t *testing.T) {
	inv := &recordingInvoker{ack: event.Ack{ProductEventCreated: true, Message: "OK"}}
	uc := NewEmitProductEvent(inv, time.Second)

	p := product.Product{ID: "p-1", Code: "AB123", Price: 10.5}
	out := uc.Emit(context.Background(), p, event.Created, "admin@example.com", "req-1")

	assert.True(t, out.Delivered)
	assert.NoError(t, out.Err)
	require.Len(t, inv.events, 1)
	assert.Equal(t, event.ProductEvent{
		EventType:    event.Created,
		ProductID:    "p-1",
		ProductCode:  "AB123",
		ProductPrice: 10.5,
		Email:        "admin@example.com",
		RequestID:    "req-1",
	}, inv.events[0])
}

func TestEmitProductEventAppliesTimeout(t *testing.T) {
	var deadline time.Time
	inv := &recordingInvoker{
		ack: event.Ack{ProductEventCreated: true},
		onCall: func(ctx context.Context) {
			deadline, _ = ctx.Deadline()
		},
	}
	uc := NewEmitProductEvent(inv, 5*time.Second)

	before := time.Now()
	uc.Emit(context.Background(), product.Product{ID: "p", Code: "C"}, event.Updated, "", "")

	require.False(t, deadline.IsZero())
	assert.WithinDuration(t, before.Add(5*time.Second), deadline, time.Second)
}

func TestEmitProductEventFailureIsAnOutcome(t *testing.T) {
	inv := &recordingInvoker{err: errors.New("connection refused")}
	uc := NewEmitProductEvent(inv, time.Second)

	out := uc.Emit(context.Background(), product.Product{ID: "p", Code: "C"}, event.Deleted, "", "")

	assert.False(t, out.Delivered)
	assert.EqualError(t, out.Err, "connection refused")
	assert.Equal(t, "connection refused", out.Message)
}

func TestEmitProductEventRejectedAck(t *testing.T) {
	inv := &recordingInvoker{ack: event.Ack{ProductEventCreated: false, Message: "throttled"}}
	uc := NewEmitProductEvent(inv, time.Second)

	out := uc.Emit(context.Background(), product.Product{ID: "p", Code: "C"}, event.Updated, "", "")

	assert.False(t, out.Delivered)
	assert.NoError(t, out.Err)
	assert.Equal(t, "throttled", out.Message)
}
