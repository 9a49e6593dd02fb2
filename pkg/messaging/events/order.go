package events

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/swiftcart/swiftcart/pkg/messaging"
)

// OrderQueuedItem is one line item of a queued order. Name and price are the
// denormalized copies taken at order time.
type OrderQueuedItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int32           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderCreatedEvent is the queue message the order service publishes after
// committing an order. The workflow payload mirrors the same shape.
type OrderCreatedEvent struct {
	OrderID   int64             `json:"orderId"`
	UserID    string            `json:"userId"`
	UserEmail string            `json:"userEmail"`
	Items     []OrderQueuedItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
}

func (o OrderCreatedEvent) Subject() string {
	return messaging.OrdersCreatedSubject
}

func (o OrderCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}

// WorkflowStartEvent asks the fulfillment workflow engine to start an
// execution for a processed order. The subject is deployment configuration.
type WorkflowStartEvent struct {
	OrderCreatedEvent
	subject string
}

func NewWorkflowStartEvent(subject string, order OrderCreatedEvent) WorkflowStartEvent {
	return WorkflowStartEvent{OrderCreatedEvent: order, subject: subject}
}

func (e WorkflowStartEvent) Subject() string {
	return e.subject
}

func (e WorkflowStartEvent) Payload() ([]byte, error) {
	return json.Marshal(e.OrderCreatedEvent)
}
