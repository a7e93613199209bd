package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

// eventItem is the event table row. ttl is in epoch seconds, the unit
// DynamoDB's TTL feature expects; createdAt is in epoch milliseconds.
type eventItem struct {
	PK        string     `dynamodbav:"pk"`
	SK        string     `dynamodbav:"sk"`
	Email     string     `dynamodbav:"email"`
	CreatedAt int64      `dynamodbav:"createdAt"`
	RequestID string     `dynamodbav:"requestId"`
	EventType string     `dynamodbav:"eventType"`
	Info      event.Info `dynamodbav:"info"`
	TTL       int64      `dynamodbav:"ttl"`
}

func newEventItem(r event.Record) eventItem {
	return eventItem{
		PK:        r.PK,
		SK:        r.SK,
		Email:     r.Email,
		CreatedAt: r.CreatedAt.UnixMilli(),
		RequestID: r.RequestID,
		EventType: string(r.EventType),
		Info:      r.Info,
		TTL:       r.ExpiresAt.Unix(),
	}
}

type EventStore struct {
	client API
	table  string
}

func NewEventStore(client API, table string) *EventStore {
	return &EventStore{client: client, table: table}
}

// Put writes unconditionally; expiry is left to the table's TTL setting.
func (s *EventStore) Put(ctx context.Context, r event.Record) error {
	item, err := attributevalue.MarshalMap(newEventItem(r))
	if err != nil {
		return fmt.Errorf("marshal event record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put event record: %w", err)
	}
	return nil
}
