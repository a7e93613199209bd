package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolyapvp/products-app/internal/domain/product"
	"github.com/kolyapvp/products-app/internal/infrastructure/memory"
)

func TestMutateProductCreateAssignsUUID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProductStore()
	uc := NewMutateProduct(store)

	p, err := uc.Create(ctx, product.Input{ProductName: "Keyboard", Code: "AB123", Price: price(10.5)})
	require.NoError(t, err)

	_, err = uuid.Parse(p.ID)
	assert.NoError(t, err)
	assert.Equal(t, "AB123", p.Code)
	assert.Equal(t, 10.5, p.Price)
}

func TestMutateProductCreateThenGet(t *testing.T) {
	store := memory.NewProductStore()
	uc := NewMutateProduct(store)

	properties := gopter.NewProperties(nil)
	properties.Property("get returns the created input plus its id", prop.ForAll(
		func(name, code string, p float64) bool {
			ctx := context.Background()
			in := product.Input{ProductName: name, Code: code, Price: &p}
			created, err := uc.Create(ctx, in)
			if err != nil {
				return false
			}
			got, err := store.Get(ctx, created.ID)
			if err != nil {
				return false
			}
			return got == in.Apply(created.ID)
		},
		gen.AlphaString(),
		gen.Identifier(),
		gen.Float64Range(0, 1e6),
	))
	properties.TestingRun(t)
}

func TestMutateProductCreateDuplicateID(t *testing.T) {
	uc := NewMutateProduct(memory.NewProductStore())
	uc.newID = func() string { return "fixed" }

	_, err := uc.Create(context.Background(), product.Input{Code: "A", Price: price(1)})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), product.Input{Code: "B", Price: price(2)})
	assert.ErrorIs(t, err, product.ErrAlreadyExists)
}

func TestMutateProductRejectsInvalidInputWithoutStoreCall(t *testing.T) {
	repo := &countingRepo{Repository: memory.NewProductStore()}
	uc := NewMutateProduct(repo)

	_, err := uc.Create(context.Background(), product.Input{Code: "", Price: price(1)})
	assert.ErrorIs(t, err, product.ErrValidation)

	_, err = uc.Update(context.Background(), "id", product.Input{Code: "A", Price: price(-1)})
	assert.ErrorIs(t, err, product.ErrValidation)

	assert.Zero(t, repo.calls)
}

func TestMutateProductAbsentIDIsNotFoundAndSideEffectFree(t *testing.T) {
	store := memory.NewProductStore()
	uc := NewMutateProduct(store)

	properties := gopter.NewProperties(nil)
	properties.Property("update and delete of an absent id fail the same way every time", prop.ForAll(
		func(id string, repeats int) bool {
			ctx := context.Background()
			for range repeats {
				if _, err := uc.Update(ctx, id, product.Input{Code: "Z", Price: price(1)}); !assert.ErrorIs(t, err, product.ErrNotFound) {
					return false
				}
				if _, err := uc.Delete(ctx, id); !assert.ErrorIs(t, err, product.ErrNotFound) {
					return false
				}
			}
			return store.Len() == 0
		},
		gen.Identifier(),
		gen.IntRange(1, 4),
	))
	properties.TestingRun(t)
}

func TestMutateProductDeleteReturnsPriorState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProductStore()
	uc := NewMutateProduct(store)

	created, err := uc.Create(ctx, product.Input{Code: "C1", Price: price(4), Model: "M"})
	require.NoError(t, err)

	deleted, err := uc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)
	assert.Zero(t, store.Len())
}
