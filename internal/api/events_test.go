package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/infrastructure/memory"
	"github.com/kolyapvp/products-app/internal/usecase"
)

func setupEvents(store event.Store) http.Handler {
	return NewEventsRouter(NewEventHandlers(usecase.NewRecordProductEvent(store, event.DefaultTTL)))
}

func decodeAck(t *testing.T, body []byte) event.Ack {
	t.Helper()
	var ack event.Ack
	require.NoError(t, json.Unmarshal(body, &ack))
	return ack
}

func TestRecordProductEventEndpoint(t *testing.T) {
	store := memory.NewEventStore()
	router := setupEvents(store)

	rr := do(t, router, http.MethodPost, "/events/products",
		`{"eventType":"UPDATED","productId":"p-1","productCode":"AB123","productPrice":4.5,"email":"a@b.c","requestId":"r-1"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, event.Ack{ProductEventCreated: true, Message: "OK"}, decodeAck(t, rr.Body.Bytes()))

	records := store.Records("#product_AB123")
	require.Len(t, records, 1)
	assert.Equal(t, event.Info{ProductID: "p-1", Price: 4.5}, records[0].Info)
}

func TestRecordProductEventEndpointRejectsBadEvents(t *testing.T) {
	store := memory.NewEventStore()
	router := setupEvents(store)

	rr := do(t, router, http.MethodPost, "/events/products", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, decodeAck(t, rr.Body.Bytes()).ProductEventCreated)

	rr = do(t, router, http.MethodPost, "/events/products", `{"eventType":"RENAMED","productCode":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Empty(t, store.All())
}

func TestRecordProductEventEndpointStoreFailure(t *testing.T) {
	router := setupEvents(downEventStore{})

	rr := do(t, router, http.MethodPost, "/events/products", `{"eventType":"CREATED","productCode":"A"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	ack := decodeAck(t, rr.Body.Bytes())
	assert.False(t, ack.ProductEventCreated)
	assert.Contains(t, ack.Message, "connection refused")
}
