// Package store provides an interface for order storage operations.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Orders start PENDING, move to PROCESSING once the
// fulfillment pipeline has run, or to CANCELLED on user request or
// fulfillment failure.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCancelled  = "CANCELLED"
)

// Order is an order header row.
type Order struct {
	ID        int64
	UserID    string
	UserEmail string
	Status    string
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a single line item of an order.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   string
	ProductName string
	Quantity    int32
	Price       decimal.Decimal
}

// OrderStore is an interface for order storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type OrderStore interface {
	// CreateOrder writes the order header and all line items in one
	// transaction. Returns the stored order with assigned ids.
	CreateOrder(ctx context.Context, order *Order, items []OrderItem) (*Order, []OrderItem, error)

	// FindByID retrieves a single order scoped to its owning user,
	// together with its line items.
	// Returns ErrOrderNotFound if no matching order exists.
	FindByID(ctx context.Context, id int64, userID string) (*Order, []OrderItem, error)

	// FindByUserID returns all orders of a user, newest first.
	// Returns an empty slice if no orders exist.
	FindByUserID(ctx context.Context, userID string) ([]Order, error)

	// Cancel flips a PENDING order owned by the user to CANCELLED.
	// Returns ErrOrderNotFound if no matching order exists and
	// ErrOrderNotCancellable if the order is not PENDING anymore.
	Cancel(ctx context.Context, id int64, userID string) error

	// UpdateStatus sets the status of an order regardless of owner.
	// Used by the fulfillment pipeline.
	UpdateStatus(ctx context.Context, id int64, status string) error
}
