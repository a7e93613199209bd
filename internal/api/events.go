package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/usecase"
)

// EventHandlers is the recorder's HTTP ingestion entrypoint.
type EventHandlers struct {
	record *usecase.RecordProductEvent
}

func NewEventHandlers(record *usecase.RecordProductEvent) *EventHandlers {
	return &EventHandlers{record: record}
}

func (h *EventHandlers) RecordProductEvent(w http.ResponseWriter, r *http.Request) {
	var ev event.ProductEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, event.Ack{Message: "invalid request body"})
		return
	}

	slog.InfoContext(r.Context(), "product event received",
		"event_type", ev.EventType,
		"product_id", ev.ProductID,
		"request_id", ev.RequestID,
		"http_request_id", chimw.GetReqID(r.Context()),
	)

	ack, err := h.record.Execute(r.Context(), ev)
	switch {
	case errors.Is(err, event.ErrInvalidEvent):
		writeJSON(w, http.StatusBadRequest, ack)
	case err != nil:
		slog.ErrorContext(r.Context(), "record product event failed",
			"request_id", ev.RequestID,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, ack)
	default:
		writeJSON(w, http.StatusOK, ack)
	}
}
