package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/kolyapvp/products-app/internal/api/middleware"
)

// NewRouter serves the admin and fetch APIs. redisClient may be nil, in which
// case POST /products is not idempotent.
func NewRouter(h *Handlers, redisClient *redis.Client) http.Handler {
	r := newBaseRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		if redisClient != nil {
			r.With(middleware.Idempotency(redisClient)).Post("/", h.CreateProduct)
		} else {
			r.Post("/", h.CreateProduct)
		}
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	slog.Debug("registered routes",
		"routes", []string{"GET /products", "POST /products", "GET /products/{id}", "PUT /products/{id}", "DELETE /products/{id}", "GET /metrics"},
		"idempotent_create", redisClient != nil,
	)
	return r
}

// NewEventsRouter serves the recorder's ingestion endpoint.
func NewEventsRouter(h *EventHandlers) http.Handler {
	r := newBaseRouter()
	r.Post("/events/products", h.RecordProductEvent)
	return r
}

func newBaseRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
