package usecase

import (
	"context"
	"log/slog"

	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/domain/product"
)

// Meta identifies who asked for a mutation and under which request.
type Meta struct {
	Email     string
	RequestID string
}

// AdminProduct runs a mutation and, when it succeeds, emits the matching
// change event. Emission never changes the returned result.
type AdminProduct struct {
	mutate *MutateProduct
	emit   *EmitProductEvent
	cache  ProductCache
	logger *slog.Logger
}

func NewAdminProduct(mutate *MutateProduct, emit *EmitProductEvent, cache ProductCache, logger *slog.Logger) *AdminProduct {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminProduct{
		mutate: mutate,
		emit:   emit,
		cache:  cache,
		logger: logger.With("component", "admin_product"),
	}
}

func (uc *AdminProduct) Create(ctx context.Context, in product.Input, meta Meta) (product.Product, error) {
	p, err := uc.mutate.Create(ctx, in)
	if err != nil {
		return product.Product{}, err
	}
	uc.afterMutation(ctx, p, event.Created, meta)
	return p, nil
}

func (uc *AdminProduct) Update(ctx context.Context, id string, in product.Input, meta Meta) (product.Product, error) {
	p, err := uc.mutate.Update(ctx, id, in)
	if err != nil {
		return product.Product{}, err
	}
	uc.afterMutation(ctx, p, event.Updated, meta)
	return p, nil
}

func (uc *AdminProduct) Delete(ctx context.Context, id string, meta Meta) (product.Product, error) {
	p, err := uc.mutate.Delete(ctx, id)
	if err != nil {
		return product.Product{}, err
	}
	uc.afterMutation(ctx, p, event.Deleted, meta)
	return p, nil
}

func (uc *AdminProduct) afterMutation(ctx context.Context, p product.Product, t event.Type, meta Meta) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, p.ID)
	}

	// The mutation is committed; a client going away must not cancel its event.
	out := uc.emit.Emit(context.WithoutCancel(ctx), p, t, meta.Email, meta.RequestID)
	if !out.Delivered {
		uc.logger.ErrorContext(ctx, "product event not delivered",
			"event_type", t,
			"product_id", p.ID,
			"request_id", meta.RequestID,
			"message", out.Message,
		)
		return
	}
	uc.logger.InfoContext(ctx, "product event delivered",
		"event_type", t,
		"product_id", p.ID,
		"request_id", meta.RequestID,
	)
}
