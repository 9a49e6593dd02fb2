// Package store provides access to the product catalog storage.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a single catalog entry.
type Product struct {
	ID          string          `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedBy   string          `json:"updatedBy,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// ProductPatch carries the fields of a partial update. Nil fields are
// left untouched in storage.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Stock       *int64
	Category    *string
	Description *string
	UpdatedBy   string
}

// Empty reports whether the patch carries no updatable fields.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Stock == nil && p.Category == nil && p.Description == nil
}

// ProductStore defines the persistence operations for products.
type ProductStore interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)
	Delete(ctx context.Context, id string) error
	Stock(ctx context.Context, id string) (int64, error)
	DecrementStock(ctx context.Context, id string, quantity int64) error
}
