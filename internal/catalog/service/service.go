// Package service contains the business logic for the product catalog.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	perrors "github.com/swiftcart/swiftcart/internal/catalog/errors"
	"github.com/swiftcart/swiftcart/internal/catalog/store"
)

// ProductCreateDto carries the payload for creating a product.
type ProductCreateDto struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"-"`
	Stock       int64           `json:"stock" validate:"gte=0"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// ProductUpdateDto carries a partial update. Only non-nil fields are
// written to storage.
type ProductUpdateDto struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock" validate:"omitempty,gte=0"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
}

// ProductService defines the business operations on the catalog.
type ProductService interface {
	List(ctx context.Context) ([]store.Product, error)
	GetByID(ctx context.Context, id string) (*store.Product, error)
	Create(ctx context.Context, dto ProductCreateDto, createdBy string) (*store.Product, error)
	Update(ctx context.Context, id string, dto ProductUpdateDto, updatedBy string) (*store.Product, error)
	Delete(ctx context.Context, id string) error
}

// Service implements ProductService on top of a ProductStore.
type Service struct {
	store store.ProductStore
	log   *slog.Logger
}

// New creates a new catalog Service.
func New(store store.ProductStore, logger *slog.Logger) *Service {
	return &Service{store: store, log: logger}
}

var _ ProductService = (*Service)(nil)

// List returns all products.
func (s *Service) List(ctx context.Context) ([]store.Product, error) {
	return s.store.FindAll(ctx)
}

// GetByID returns a single product by its id.
func (s *Service) GetByID(ctx context.Context, id string) (*store.Product, error) {
	return s.store.FindByID(ctx, id)
}

// Create validates the payload and persists a new product. The id is
// derived from the creation timestamp.
func (s *Service) Create(ctx context.Context, dto ProductCreateDto, createdBy string) (*store.Product, error) {
	if !dto.Price.IsPositive() {
		return nil, perrors.ErrInvalidProduct
	}
	now := time.Now().UTC()
	product := &store.Product{
		ID:          fmt.Sprintf("prod_%d", now.UnixMilli()),
		Name:        dto.Name,
		Price:       dto.Price,
		Stock:       dto.Stock,
		Category:    dto.Category,
		Description: dto.Description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedBy:   createdBy,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, product); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "product created", "product_id", product.ID, "created_by", createdBy)
	return product, nil
}

// Update applies a partial update to an existing product. A payload
// without any recognized fields is rejected.
func (s *Service) Update(ctx context.Context, id string, dto ProductUpdateDto, updatedBy string) (*store.Product, error) {
	patch := store.ProductPatch{
		Name:        dto.Name,
		Price:       dto.Price,
		Stock:       dto.Stock,
		Category:    dto.Category,
		Description: dto.Description,
		UpdatedBy:   updatedBy,
	}
	if patch.Empty() {
		return nil, perrors.ErrNoFieldsToUpdate
	}
	if dto.Price != nil && !dto.Price.IsPositive() {
		return nil, perrors.ErrInvalidProduct
	}
	product, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "product updated", "product_id", id, "updated_by", updatedBy)
	return product, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}
