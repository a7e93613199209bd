package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	processingMarker = "PROCESSING"
	lockTTL          = 10 * time.Second
	resultTTL        = 24 * time.Hour
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response of a completed request that carried
// the same Idempotency-Key. A key still in progress yields 409. Server errors
// release the key so the client can retry.
func Idempotency(redisClient *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := fmt.Sprintf("idempotency:%s:%s", r.URL.Path, key)
			ctx := r.Context()

			acquired, err := redisClient.SetNX(ctx, idemKey, processingMarker, lockTTL).Result()
			if err != nil {
				slog.WarnContext(ctx, "idempotency store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				replay(w, r, redisClient, idemKey)
				return
			}

			rec := &capturingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError {
				redisClient.Del(ctx, idemKey)
				return
			}

			data, err := json.Marshal(storedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := redisClient.Set(ctx, idemKey, data, resultTTL).Err(); err != nil {
				slog.WarnContext(ctx, "idempotency result not stored", "error", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, redisClient *redis.Client, idemKey string) {
	val, err := redisClient.Get(r.Context(), idemKey).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		http.Error(w, "idempotency store unavailable", http.StatusServiceUnavailable)
		return
	}
	if errors.Is(err, redis.Nil) || string(val) == processingMarker {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "concurrent request"}`))
		return
	}

	var stored storedResponse
	if err := json.Unmarshal(val, &stored); err != nil {
		http.Error(w, "corrupt idempotency record", http.StatusInternalServerError)
		return
	}
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set("X-Idempotency-Hit", "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *capturingWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *capturingWriter) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
