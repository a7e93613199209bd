package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes product events to a topic. As an event.Invoker it acks
// once the broker has accepted the message; recording happens in the consumer.
type Producer struct {
	writer   messageWriter
	topic    string
	producer string
	now      func() time.Time
}

func NewProducer(cfg Config, producer string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}

	return newProducer(w, cfg.Topic, producer)
}

func newProducer(w messageWriter, topic, producer string) *Producer {
	return &Producer{writer: w, topic: topic, producer: producer, now: time.Now}
}

// Invoke keys the message by product code so one product's events stay in
// order on a single partition.
func (p *Producer) Invoke(ctx context.Context, ev event.ProductEvent) (event.Ack, error) {
	msg, err := event.NewMessage(ev, p.producer, p.now())
	if err != nil {
		return event.Ack{}, err
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return event.Ack{}, fmt.Errorf("marshal envelope: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ProductCode),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.EventType)},
			{Key: "correlation_id", Value: []byte(ev.RequestID)},
		},
	})
	if err != nil {
		return event.Ack{}, fmt.Errorf("failed to write message: %w", err)
	}

	return event.Ack{
		ProductEventCreated: true,
		Message:             fmt.Sprintf("published %s to %s", msg.ID, p.topic),
	}, nil
}

func (p *Producer) Topic() string {
	return p.topic
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
