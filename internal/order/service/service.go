// Package service contains the business logic for orders.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	ordererrors "github.com/swiftcart/swiftcart/internal/order/errors"
	"github.com/swiftcart/swiftcart/internal/order/store"
	"github.com/swiftcart/swiftcart/pkg/messaging"
	"github.com/swiftcart/swiftcart/pkg/messaging/events"
)

// OrderItemDto carries a single line item of an incoming order.
type OrderItemDto struct {
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int32           `json:"quantity" validate:"required,min=1"`
	Price       decimal.Decimal `json:"price" validate:"-"`
}

// OrderCreateDto carries the payload for creating an order.
type OrderCreateDto struct {
	Items []OrderItemDto `json:"items" validate:"required,min=1,dive"`
}

// OrderDto is the wire representation of an order.
type OrderDto struct {
	ID        int64           `json:"orderId"`
	UserID    string          `json:"userId"`
	UserEmail string          `json:"userEmail"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Items     []OrderItemDto  `json:"items,omitempty"`
}

// OrderService defines the business operations on orders.
type OrderService interface {
	Create(ctx context.Context, userID, userEmail string, dto OrderCreateDto) (*OrderDto, error)
	FindByID(ctx context.Context, id int64, userID string) (*OrderDto, error)
	FindByUserID(ctx context.Context, userID string) ([]OrderDto, error)
	Cancel(ctx context.Context, id int64, userID string) error
}

// Service implements OrderService on top of an OrderStore and a
// message publisher.
type Service struct {
	store     store.OrderStore
	publisher messaging.Publisher
	log       *slog.Logger
}

// NewService creates a new order Service.
func NewService(store store.OrderStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, publisher: publisher, log: logger}
}

var _ OrderService = (*Service)(nil)

// Create validates the cart, computes the total, stores the order with
// its items in one transaction and enqueues a fulfillment message.
// Publishing is best effort: a failed enqueue is logged and the order
// stays created.
func (s *Service) Create(ctx context.Context, userID, userEmail string, dto OrderCreateDto) (*OrderDto, error) {
	if len(dto.Items) == 0 {
		return nil, ordererrors.ErrEmptyOrder
	}

	total := decimal.Zero
	items := make([]store.OrderItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		if !item.Price.IsPositive() {
			return nil, ordererrors.ErrInvalidItem
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
		items = append(items, store.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	order := &store.Order{
		UserID:    userID,
		UserEmail: userEmail,
		Status:    store.StatusPending,
		Total:     total,
	}
	created, createdItems, err := s.store.CreateOrder(ctx, order, items)
	if err != nil {
		return nil, err
	}
	ordersCreated.Inc()
	s.log.InfoContext(ctx, "order created", "order_id", created.ID, "user_id", userID, "total", total.String())

	if err := s.publisher.Publish(ctx, newOrderCreatedEvent(created, createdItems)); err != nil {
		s.log.ErrorContext(ctx, "failed to enqueue order for processing", "order_id", created.ID, "error", err)
	}

	return toOrderDto(created, createdItems), nil
}

// FindByID returns a single order with its items, scoped to the caller.
func (s *Service) FindByID(ctx context.Context, id int64, userID string) (*OrderDto, error) {
	order, items, err := s.store.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return toOrderDto(order, items), nil
}

// FindByUserID returns all of the caller's orders, newest first.
func (s *Service) FindByUserID(ctx context.Context, userID string) ([]OrderDto, error) {
	orders, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDto, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *toOrderDto(&orders[i], nil))
	}
	return dtos, nil
}

// Cancel flips a PENDING order of the caller to CANCELLED.
func (s *Service) Cancel(ctx context.Context, id int64, userID string) error {
	if err := s.store.Cancel(ctx, id, userID); err != nil {
		return err
	}
	ordersCancelled.Inc()
	s.log.InfoContext(ctx, "order cancelled", "order_id", id, "user_id", userID)
	return nil
}

func newOrderCreatedEvent(order *store.Order, items []store.OrderItem) events.OrderCreatedEvent {
	queued := make([]events.OrderQueuedItem, 0, len(items))
	for _, item := range items {
		queued = append(queued, events.OrderQueuedItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return events.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		UserEmail: order.UserEmail,
		Items:     queued,
		Total:     order.Total,
	}
}

func toOrderDto(order *store.Order, items []store.OrderItem) *OrderDto {
	dto := &OrderDto{
		ID:        order.ID,
		UserID:    order.UserID,
		UserEmail: order.UserEmail,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
		UpdatedAt: order.UpdatedAt.Format(time.RFC3339),
	}
	for _, item := range items {
		dto.Items = append(dto.Items, OrderItemDto{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return dto
}
