package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/swiftcart/swiftcart/pkg/messaging"
)

// EnsureOrdersStream creates or updates the stream backing the order
// processing queue. Both the order service and the processor call this
// on startup so either can come up first.
func EnsureOrdersStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      messaging.OrdersStream,
		Subjects:  []string{"orders.>", "workflow.>"},
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
		MaxAge:    24 * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stream %s: %w", messaging.OrdersStream, err)
	}
	return stream, nil
}
