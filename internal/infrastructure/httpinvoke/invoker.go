// Package httpinvoke delivers product events to the recorder over HTTP.
package httpinvoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

type Invoker struct {
	client *http.Client
	url    string
}

// New returns an Invoker posting to url. A nil client uses http.DefaultClient;
// deadlines come from the request context.
func New(url string, client *http.Client) *Invoker {
	if client == nil {
		client = http.DefaultClient
	}
	return &Invoker{client: client, url: url}
}

func (i *Invoker) Invoke(ctx context.Context, ev event.ProductEvent) (event.Ack, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return event.Ack{}, fmt.Errorf("marshal product event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(body))
	if err != nil {
		return event.Ack{}, fmt.Errorf("build recorder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ev.RequestID != "" {
		req.Header.Set("X-Request-Id", ev.RequestID)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return event.Ack{}, fmt.Errorf("call recorder: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return event.Ack{}, fmt.Errorf("read recorder response: %w", err)
	}

	var ack event.Ack
	decodeErr := json.Unmarshal(raw, &ack)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ack.Message
		if decodeErr != nil || msg == "" {
			msg = string(raw)
		}
		return ack, fmt.Errorf("recorder returned status %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return event.Ack{}, fmt.Errorf("decode recorder ack: %w", decodeErr)
	}
	return ack, nil
}
