package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is the envelope published to Kafka.
// Payload is the JSON encoded ProductEvent.
type Message struct {
	ID            string          `json:"id"`
	Type          Type            `json:"type"`
	CorrelationID string          `json:"correlation_id"`
	Producer      string          `json:"producer"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

func NewMessage(ev ProductEvent, producer string, now time.Time) (Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Message{}, fmt.Errorf("marshal product event: %w", err)
	}
	return Message{
		ID:            uuid.New().String(),
		Type:          ev.EventType,
		CorrelationID: ev.RequestID,
		Producer:      producer,
		OccurredAt:    now.UTC(),
		Payload:       payload,
	}, nil
}

func (m Message) ProductEvent() (ProductEvent, error) {
	var ev ProductEvent
	if err := json.Unmarshal(m.Payload, &ev); err != nil {
		return ProductEvent{}, fmt.Errorf("unmarshal product event: %w", err)
	}
	return ev, nil
}
