package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/swiftcart/swiftcart/internal/catalog/errors"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func testProduct(id string) *Product {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &Product{
		ID:          id,
		Name:        "Wireless Mouse",
		Price:       decimal.NewFromFloat(29.99),
		Stock:       50,
		Category:    "Electronics",
		Description: "Ergonomic wireless mouse",
		CreatedBy:   "admin@example.com",
		CreatedAt:   now,
		UpdatedBy:   "admin@example.com",
		UpdatedAt:   now,
	}
}

func TestRedisStore_CreateAndFindByID(t *testing.T) {
	// given
	store, _ := newTestStore(t)
	ctx := context.Background()
	product := testProduct("prod_001")

	// when
	require.NoError(t, store.Create(ctx, product))
	found, err := store.FindByID(ctx, "prod_001")

	// then
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	assert.Equal(t, product.Name, found.Name)
	assert.True(t, product.Price.Equal(found.Price), "price should survive the roundtrip")
	assert.Equal(t, product.Stock, found.Stock)
	assert.Equal(t, product.Category, found.Category)
	assert.Equal(t, product.CreatedBy, found.CreatedBy)
	assert.True(t, product.CreatedAt.Equal(found.CreatedAt))
}

func TestRedisStore_FindByID_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.FindByID(context.Background(), "prod_missing")

	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}

func TestRedisStore_FindAll(t *testing.T) {
	// given
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, testProduct("prod_001")))
	require.NoError(t, store.Create(ctx, testProduct("prod_002")))
	// unrelated keys must not show up in the listing
	mr.Set("session:abc", "1")

	// when
	products, err := store.FindAll(ctx)

	// then
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestRedisStore_FindAll_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	products, err := store.FindAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products, "an empty catalog should list as [] not null")
}

func TestRedisStore_Update_Partial(t *testing.T) {
	// given
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, testProduct("prod_001")))
	newPrice := decimal.NewFromFloat(19.99)

	// when
	updated, err := store.Update(ctx, "prod_001", ProductPatch{
		Price:     &newPrice,
		UpdatedBy: "editor@example.com",
	})

	// then
	require.NoError(t, err)
	assert.True(t, newPrice.Equal(updated.Price))
	assert.Equal(t, "Wireless Mouse", updated.Name, "untouched fields must survive a partial update")
	assert.Equal(t, int64(50), updated.Stock)
	assert.Equal(t, "editor@example.com", updated.UpdatedBy)
}

func TestRedisStore_Update_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	name := "New Name"

	_, err := store.Update(context.Background(), "prod_missing", ProductPatch{Name: &name})

	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, testProduct("prod_001")))

	require.NoError(t, store.Delete(ctx, "prod_001"))

	_, err := store.FindByID(ctx, "prod_001")
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}

func TestRedisStore_Delete_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Delete(context.Background(), "prod_missing")

	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}

func TestRedisStore_Stock(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, testProduct("prod_001")))

	stock, err := store.Stock(ctx, "prod_001")

	require.NoError(t, err)
	assert.Equal(t, int64(50), stock)
}

func TestRedisStore_Stock_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Stock(context.Background(), "prod_missing")

	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}

func TestRedisStore_DecrementStock(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, testProduct("prod_001")))

	require.NoError(t, store.DecrementStock(ctx, "prod_001", 3))

	stock, err := store.Stock(ctx, "prod_001")
	require.NoError(t, err)
	assert.Equal(t, int64(47), stock)
}

func TestRedisStore_DecrementStock_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.DecrementStock(context.Background(), "prod_missing", 1)

	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}
