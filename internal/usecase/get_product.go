package usecase

import (
	"context"
	"fmt"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

// ProductCache is an optional read-through cache in front of the repository.
//
// Every Invalidate bumps a per-key version. A reader takes the version
// before going to the repository and Set only stores the entry when the
// version is still the same, so a read racing a mutation never caches the
// pre-mutation state.
type ProductCache interface {
	Get(ctx context.Context, id string) (product.Product, bool)
	Version(ctx context.Context, id string) (int64, bool)
	Set(ctx context.Context, p product.Product, version int64)
	Invalidate(ctx context.Context, id string)
}

type GetProduct struct {
	repo  product.Repository
	cache ProductCache
}

// NewGetProduct accepts a nil cache.
func NewGetProduct(repo product.Repository, cache ProductCache) *GetProduct {
	return &GetProduct{repo: repo, cache: cache}
}

func (uc *GetProduct) Execute(ctx context.Context, id string) (product.Product, error) {
	var (
		version   int64
		cacheable bool
	)
	if uc.cache != nil {
		if p, ok := uc.cache.Get(ctx, id); ok {
			return p, nil
		}
		version, cacheable = uc.cache.Version(ctx, id)
	}

	p, err := uc.repo.Get(ctx, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}

	if cacheable {
		uc.cache.Set(ctx, p, version)
	}
	return p, nil
}

type ListProducts struct {
	repo product.Repository
}

func NewListProducts(repo product.Repository) *ListProducts {
	return &ListProducts{repo: repo}
}

func (uc *ListProducts) Execute(ctx context.Context) ([]product.Product, error) {
	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
