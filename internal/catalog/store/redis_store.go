package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	perrors "github.com/swiftcart/swiftcart/internal/catalog/errors"
)

const (
	productKeyPrefix = "product:"
	scanBatchSize    = 100
)

// RedisStore is a Redis-backed implementation of the ProductStore interface.
// Each product is stored as a hash under the key "product:<id>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new instance of RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ ProductStore = (*RedisStore)(nil)

func productKey(id string) string {
	return productKeyPrefix + id
}

// FindAll returns every product in the catalog.
func (s *RedisStore) FindAll(ctx context.Context) ([]Product, error) {
	products := make([]Product, 0)
	iter := s.client.Scan(ctx, 0, productKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		fields, err := s.client.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read product %s: %w", iter.Val(), err)
		}
		if len(fields) == 0 {
			continue
		}
		product, err := fromHash(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to decode product %s: %w", iter.Val(), err)
		}
		products = append(products, product)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

// FindByID returns a single product or ErrProductNotFound.
func (s *RedisStore) FindByID(ctx context.Context, id string) (*Product, error) {
	fields, err := s.client.HGetAll(ctx, productKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read product %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, perrors.ErrProductNotFound
	}
	product, err := fromHash(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return &product, nil
}

// Create persists a new product.
func (s *RedisStore) Create(ctx context.Context, product *Product) error {
	if err := s.client.HSet(ctx, productKey(product.ID), toHash(*product)).Err(); err != nil {
		return fmt.Errorf("failed to create product %s: %w", product.ID, err)
	}
	return nil
}

// Update applies the non-nil fields of the patch to an existing product
// and returns the updated state.
func (s *RedisStore) Update(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	key := productKey(id)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check product %s: %w", id, err)
	}
	if exists == 0 {
		return nil, perrors.ErrProductNotFound
	}

	fields := map[string]any{
		"updated_by": patch.UpdatedBy,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Price != nil {
		fields["price"] = patch.Price.String()
	}
	if patch.Stock != nil {
		fields["stock"] = strconv.FormatInt(*patch.Stock, 10)
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a product. Deleting a missing product returns
// ErrProductNotFound.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, productKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if deleted == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Stock returns the current stock level of a product.
func (s *RedisStore) Stock(ctx context.Context, id string) (int64, error) {
	value, err := s.client.HGet(ctx, productKey(id), "stock").Result()
	if err != nil {
		if err == redis.Nil {
			return 0, perrors.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to read stock for %s: %w", id, err)
	}
	stock, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse stock for %s: %w", id, err)
	}
	return stock, nil
}

// DecrementStock reduces the stock level of a product by the given quantity.
func (s *RedisStore) DecrementStock(ctx context.Context, id string, quantity int64) error {
	key := productKey(id)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check product %s: %w", id, err)
	}
	if exists == 0 {
		return perrors.ErrProductNotFound
	}
	if err := s.client.HIncrBy(ctx, key, "stock", -quantity).Err(); err != nil {
		return fmt.Errorf("failed to decrement stock for %s: %w", id, err)
	}
	return nil
}

func toHash(p Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price.String(),
		"stock":       strconv.FormatInt(p.Stock, 10),
		"category":    p.Category,
		"description": p.Description,
		"created_by":  p.CreatedBy,
		"created_at":  p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_by":  p.UpdatedBy,
		"updated_at":  p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromHash(fields map[string]string) (Product, error) {
	price, err := decimal.NewFromString(fields["price"])
	if err != nil {
		return Product{}, fmt.Errorf("invalid price %q: %w", fields["price"], err)
	}
	var stock int64
	if raw := fields["stock"]; raw != "" {
		stock, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Product{}, fmt.Errorf("invalid stock %q: %w", raw, err)
		}
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	updatedAt, _ := time.Parse(time.RFC3339Nano, fields["updated_at"])
	return Product{
		ID:          fields["id"],
		Name:        fields["name"],
		Price:       price,
		Stock:       stock,
		Category:    fields["category"],
		Description: fields["description"],
		CreatedBy:   fields["created_by"],
		CreatedAt:   createdAt,
		UpdatedBy:   fields["updated_by"],
		UpdatedAt:   updatedAt,
	}, nil
}
