package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

func price(v float64) *float64 { return &v }

func TestProductStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewProductStore(api, "products")

	p := product.Product{ID: "p-1", ProductName: "Mouse", Code: "AB123", Price: 10.5, Model: "M1"}
	_, err := s.Create(ctx, p)
	require.NoError(t, err)

	require.Len(t, api.puts, 1)
	assert.Equal(t, "products", *api.puts[0].TableName)
	assert.Contains(t, *api.puts[0].ConditionExpression, "attribute_not_exists")
	assert.Equal(t, &types.AttributeValueMemberS{Value: "AB123"}, api.puts[0].Item["code"])

	got, err := s.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = s.Create(ctx, p)
	assert.ErrorIs(t, err, product.ErrAlreadyExists)
}

func TestProductStoreConditionalWritesOnMissingID(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewProductStore(api, "products")

	_, err := s.Update(ctx, "xyz", product.Input{Code: "Z", Price: price(1)})
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = s.Delete(ctx, "xyz")
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = s.Get(ctx, "xyz")
	assert.ErrorIs(t, err, product.ErrNotFound)

	assert.Empty(t, api.items)
}

func TestProductStoreUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewProductStore(api, "products")

	_, err := s.Create(ctx, product.Product{ID: "p-2", Code: "C1", Price: 3})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "p-2", product.Input{ProductName: "Pad", Code: "C2", Price: price(7), Model: "P"})
	require.NoError(t, err)
	assert.Equal(t, product.Product{ID: "p-2", ProductName: "Pad", Code: "C2", Price: 7, Model: "P"}, updated)
	assert.Contains(t, *api.puts[1].ConditionExpression, "attribute_exists")

	deleted, err := s.Delete(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	_, err = s.Get(ctx, "p-2")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestProductStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore(newFakeAPI(), "products")
	for _, id := range []string{"b", "a"} {
		_, err := s.Create(ctx, product.Product{ID: id, Code: "C" + id, Price: 1})
		require.NoError(t, err)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "Cb", list[1].Code)
}

func TestProductStoreWrapsBackendErrors(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.err = errors.New("throttled")
	s := NewProductStore(api, "products")

	_, err := s.Update(ctx, "p", product.Input{Code: "C", Price: price(1)})
	assert.ErrorContains(t, err, "throttled")
	assert.NotErrorIs(t, err, product.ErrNotFound)
}
