package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

var productMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "products_mutations_total",
	Help: "Product mutations by operation and result",
}, []string{"op", "result"})

// MutateProduct validates and applies a single create, update or delete.
type MutateProduct struct {
	repo  product.Repository
	newID func() string
}

func NewMutateProduct(repo product.Repository) *MutateProduct {
	return &MutateProduct{
		repo:  repo,
		newID: func() string { return uuid.New().String() },
	}
}

func (uc *MutateProduct) Create(ctx context.Context, in product.Input) (product.Product, error) {
	if err := in.Validate(); err != nil {
		observeMutation("create", err)
		return product.Product{}, err
	}

	p, err := uc.repo.Create(ctx, in.Apply(uc.newID()))
	observeMutation("create", err)
	if err != nil {
		return product.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (uc *MutateProduct) Update(ctx context.Context, id string, in product.Input) (product.Product, error) {
	if err := in.Validate(); err != nil {
		observeMutation("update", err)
		return product.Product{}, err
	}

	p, err := uc.repo.Update(ctx, id, in)
	observeMutation("update", err)
	if err != nil {
		return product.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

// Delete returns the product as it was before removal.
func (uc *MutateProduct) Delete(ctx context.Context, id string) (product.Product, error) {
	p, err := uc.repo.Delete(ctx, id)
	observeMutation("delete", err)
	if err != nil {
		return product.Product{}, fmt.Errorf("delete product %s: %w", id, err)
	}
	return p, nil
}

func observeMutation(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, product.ErrValidation):
		result = "invalid"
	case errors.Is(err, product.ErrNotFound):
		result = "not_found"
	case errors.Is(err, product.ErrAlreadyExists):
		result = "conflict"
	default:
		result = "error"
	}
	productMutations.WithLabelValues(op, result).Inc()
}
