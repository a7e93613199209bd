package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

func TestEventStorePutRowFormat(t *testing.T) {
	api := newFakeAPI()
	s := NewEventStore(api, "events")

	at := time.UnixMilli(1_700_000_000_250)
	rec := event.NewRecord(event.ProductEvent{
		EventType:    event.Updated,
		ProductID:    "p-1",
		ProductCode:  "AB123",
		ProductPrice: 12,
		Email:        "admin@example.com",
		RequestID:    "req-7",
	}, at, event.DefaultTTL)

	require.NoError(t, s.Put(context.Background(), rec))
	require.Len(t, api.puts, 1)

	in := api.puts[0]
	assert.Equal(t, "events", *in.TableName)
	assert.Nil(t, in.ConditionExpression)

	item := in.Item
	assert.Equal(t, &types.AttributeValueMemberS{Value: "#product_AB123"}, item["pk"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "UPDATED#1700000000250"}, item["sk"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "admin@example.com"}, item["email"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "req-7"}, item["requestId"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "UPDATED"}, item["eventType"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1700000000250"}, item["createdAt"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1700000300"}, item["ttl"])

	info, ok := item["info"].(*types.AttributeValueMemberM)
	require.True(t, ok)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "p-1"}, info.Value["productId"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "12"}, info.Value["price"])
}

func TestEventStorePutPropagatesErrors(t *testing.T) {
	api := newFakeAPI()
	api.err = errors.New("table not found")
	s := NewEventStore(api, "events")

	err := s.Put(context.Background(), event.NewRecord(event.ProductEvent{EventType: event.Created, ProductCode: "X"}, time.Now(), event.DefaultTTL))
	assert.ErrorContains(t, err, "table not found")
}
