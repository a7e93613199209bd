package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

func price(v float64) *float64 { return &v }

func TestProductStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()

	p := product.Product{ID: "p-1", ProductName: "Mouse", Code: "AB123", Price: 10.5, Model: "M1"}
	created, err := s.Create(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p, created)

	got, err := s.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = s.Create(ctx, p)
	assert.ErrorIs(t, err, product.ErrAlreadyExists)
}

func TestProductStoreMissingID(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	_, err := s.Create(ctx, product.Product{ID: "other", Code: "O", Price: 1})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.Update(ctx, "xyz", product.Input{Code: "Z", Price: price(1)})
		assert.ErrorIs(t, err, product.ErrNotFound)
		_, err = s.Delete(ctx, "xyz")
		assert.ErrorIs(t, err, product.ErrNotFound)
		_, err = s.Get(ctx, "xyz")
		assert.ErrorIs(t, err, product.ErrNotFound)
	}
	assert.Equal(t, 1, s.Len())
}

func TestProductStoreUpdateReplacesMutableFields(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	_, err := s.Create(ctx, product.Product{ID: "p-2", ProductName: "Old", Code: "C1", Price: 3, Model: "X"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "p-2", product.Input{ProductName: "New", Code: "C2", Price: price(4.25), Model: "Y"})
	require.NoError(t, err)
	assert.Equal(t, product.Product{ID: "p-2", ProductName: "New", Code: "C2", Price: 4.25, Model: "Y"}, updated)

	deleted, err := s.Delete(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)
	assert.Equal(t, 0, s.Len())
}

func TestProductStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	for _, id := range []string{"b", "a", "c"} {
		_, err := s.Create(ctx, product.Product{ID: id, Code: id})
		require.NoError(t, err)
	}
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestProductStoreConcurrentDeleteAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	_, err := s.Create(ctx, product.Product{ID: "race", Code: "R", Price: 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	deletes := 0
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Delete(ctx, "race"); err == nil {
				mu.Lock()
				deletes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, product.ErrNotFound)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Update(ctx, "race", product.Input{Code: "R", Price: price(2)}); err != nil {
				assert.ErrorIs(t, err, product.ErrNotFound)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, deletes)
	assert.Equal(t, 0, s.Len())
}
