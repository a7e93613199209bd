package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kolyapvp/products-app/internal/domain/product"
	"github.com/kolyapvp/products-app/internal/usecase"
)

// EmailHeader carries the acting principal when no authorizer sits in front.
const EmailHeader = "X-User-Email"

const notFoundBody = "Product not found"

type Handlers struct {
	admin *usecase.AdminProduct
	get   *usecase.GetProduct
	list  *usecase.ListProducts
}

func NewHandlers(admin *usecase.AdminProduct, get *usecase.GetProduct, list *usecase.ListProducts) *Handlers {
	return &Handlers{
		admin: admin,
		get:   get,
		list:  list,
	}
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in product.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeText(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.admin.Create(r.Context(), in, metaFrom(r))
	if err != nil {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in product.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeText(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.admin.Update(r.Context(), id, in, metaFrom(r))
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.admin.Delete(r.Context(), id, metaFrom(r))
	if err != nil {
		h.writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.list.Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// writeError maps domain errors to responses. notFound is the status the
// route uses for a missing product.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error, notFound int) {
	switch {
	case errors.Is(err, product.ErrValidation):
		writeText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound):
		writeText(w, notFound, notFoundBody)
	case errors.Is(err, product.ErrAlreadyExists):
		writeText(w, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		writeText(w, http.StatusInternalServerError, "internal server error")
	}
}

func metaFrom(r *http.Request) usecase.Meta {
	return usecase.Meta{
		Email:     r.Header.Get(EmailHeader),
		RequestID: chimw.GetReqID(r.Context()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
