// Package messaging defines the event contract between the order service
// and the order processor.
package messaging

import (
	"context"
)

// OrdersStream is the JetStream stream holding order processing messages.
const OrdersStream = "ORDERS"

// OrdersCreatedSubject carries newly created orders to the processor.
const OrdersCreatedSubject = "orders.created"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
