package event

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is how long an event record is kept before the store may expire it.
const DefaultTTL = 300 * time.Second

var ErrInvalidEvent = errors.New("invalid product event")

type Type string

const (
	Created Type = "CREATED"
	Updated Type = "UPDATED"
	Deleted Type = "DELETED"
)

func (t Type) Valid() bool {
	switch t {
	case Created, Updated, Deleted:
		return true
	}
	return false
}

// ProductEvent is the change notification sent after a successful mutation.
type ProductEvent struct {
	EventType    Type    `json:"eventType"`
	ProductID    string  `json:"productId"`
	ProductCode  string  `json:"productCode"`
	ProductPrice float64 `json:"productPrice"`
	Email        string  `json:"email"`
	RequestID    string  `json:"requestId"`
}

func (e ProductEvent) Validate() error {
	if !e.EventType.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, e.EventType)
	}
	if e.ProductCode == "" {
		return fmt.Errorf("%w: productCode is required", ErrInvalidEvent)
	}
	return nil
}

// Ack is the response of the recorder's ingestion entrypoint.
type Ack struct {
	ProductEventCreated bool   `json:"productEventCreated"`
	Message             string `json:"message"`
}

type Info struct {
	ProductID string  `json:"productId" dynamodbav:"productId"`
	Price     float64 `json:"price" dynamodbav:"price"`
}

// Record is one row of the event store. Records of a product share a
// partition key and sort chronologically by their sort key.
type Record struct {
	PK        string
	SK        string
	Email     string
	CreatedAt time.Time
	RequestID string
	EventType Type
	Info      Info
	ExpiresAt time.Time
}

func PartitionKey(productCode string) string {
	return "#product_" + productCode
}

// SortKey has millisecond resolution; two events of the same type for one
// product within a millisecond produce the same key.
func SortKey(t Type, at time.Time) string {
	return fmt.Sprintf("%s#%d", t, at.UnixMilli())
}

// NewRecord stamps ev with createdAt = now (millisecond precision) and
// expiresAt = createdAt + ttl.
func NewRecord(ev ProductEvent, now time.Time, ttl time.Duration) Record {
	createdAt := now.Truncate(time.Millisecond)
	return Record{
		PK:        PartitionKey(ev.ProductCode),
		SK:        SortKey(ev.EventType, createdAt),
		Email:     ev.Email,
		CreatedAt: createdAt,
		RequestID: ev.RequestID,
		EventType: ev.EventType,
		Info: Info{
			ProductID: ev.ProductID,
			Price:     ev.ProductPrice,
		},
		ExpiresAt: createdAt.Add(ttl),
	}
}

// Store appends event records. Put does not deduplicate.
type Store interface {
	Put(ctx context.Context, r Record) error
}

// Invoker delivers a ProductEvent to the recorder and returns its ack.
type Invoker interface {
	Invoke(ctx context.Context, ev ProductEvent) (Ack, error)
}

// InvokerFunc adapts an in-process function to Invoker.
type InvokerFunc func(ctx context.Context, ev ProductEvent) (Ack, error)

func (f InvokerFunc) Invoke(ctx context.Context, ev ProductEvent) (Ack, error) {
	return f(ctx, ev)
}
