// Package worker consumes queued orders and runs the fulfillment
// pipeline: stock check, payment, stock decrement, status update and
// the optional workflow trigger.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"

	catalogerrors "github.com/swiftcart/swiftcart/internal/catalog/errors"
	catalogstore "github.com/swiftcart/swiftcart/internal/catalog/store"
	orderstore "github.com/swiftcart/swiftcart/internal/order/store"
	"github.com/swiftcart/swiftcart/internal/processor/payment"
	"github.com/swiftcart/swiftcart/pkg/config"
	"github.com/swiftcart/swiftcart/pkg/messaging"
	"github.com/swiftcart/swiftcart/pkg/messaging/events"
)

// Processor runs the fulfillment pipeline for queued orders.
type Processor struct {
	inventory       catalogstore.ProductStore
	orders          orderstore.OrderStore
	charger         payment.Charger
	publisher       messaging.Publisher
	workflowSubject string
	log             *slog.Logger
}

// NewProcessor creates a Processor. An empty workflowSubject disables
// the workflow trigger.
func NewProcessor(inventory catalogstore.ProductStore, orders orderstore.OrderStore, charger payment.Charger,
	publisher messaging.Publisher, workflowSubject string, logger *slog.Logger) *Processor {
	return &Processor{
		inventory:       inventory,
		orders:          orders,
		charger:         charger,
		publisher:       publisher,
		workflowSubject: workflowSubject,
		log:             logger,
	}
}

// Start initializes the JetStream consumer and starts the worker goroutines.
func (p *Processor) Start(ctx context.Context, js jetstream.JetStream, subscriberCfg config.SubscriberConfig) error {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: subscriberCfg.Subject,
		Durable:       subscriberCfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	consumer, err := js.CreateOrUpdateConsumer(ctx, subscriberCfg.Stream, cfg)
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < subscriberCfg.Workers; i++ {
		g.Go(func() error {
			return p.runWorker(gCtx, consumer, subscriberCfg.Batch, subscriberCfg.Timeout, subscriberCfg.Interval)
		})
	}
	return g.Wait()
}

// runWorker fetches messages from the consumer and processes them.
func (p *Processor) runWorker(ctx context.Context, consumer jetstream.Consumer, batchSize int, timeout, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			// ctx was cancelled or timed out (e.g., application shutdown)
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(batchSize, jetstream.FetchMaxWait(timeout))
			if err != nil {
				// if the error is a timeout, we can just continue to the next iteration
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				p.log.Error("failed to fetch messages", "error", err)
				time.Sleep(interval)
				continue
			}
			for msg := range batch.Messages() {
				p.handleMessage(ctx, msg)
			}
		}
	}
}

// ackableMsg is the part of jetstream.Msg the pipeline needs.
type ackableMsg interface {
	Data() []byte
	Ack() error
	Nak() error
}

// handleMessage processes a single queued order. Terminal outcomes are
// acked, malformed payloads and transient failures are nacked so the
// queue redelivers the message.
func (p *Processor) handleMessage(ctx context.Context, msg ackableMsg) {
	var event events.OrderCreatedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		p.log.Error("failed to unmarshal message", "error", err)
		if err := msg.Nak(); err != nil {
			p.log.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := p.process(ctx, event); err != nil {
		ordersRetried.Inc()
		p.log.Error("order processing failed, message will be redelivered", "order_id", event.OrderID, "error", err)
		if err := msg.Nak(); err != nil {
			p.log.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(); err != nil {
		p.log.Error("failed to ack message", "error", err)
	}
}

// process runs the pipeline for one order. A nil return means the
// message is done, including the terminal CANCELLED outcomes. There is
// no compensation: stock decremented before a later failure stays
// decremented, and a redelivered message decrements it again.
func (p *Processor) process(ctx context.Context, event events.OrderCreatedEvent) error {
	log := p.log.With("order_id", event.OrderID)
	log.InfoContext(ctx, "processing order", "items", len(event.Items), "total", event.Total.String())

	// 1. Check stock for every item before touching anything.
	for _, item := range event.Items {
		stock, err := p.inventory.Stock(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalogerrors.ErrProductNotFound) {
				log.WarnContext(ctx, "product missing, cancelling order", "product_id", item.ProductID)
				return p.cancelOrder(ctx, event.OrderID)
			}
			return fmt.Errorf("failed to check stock for %s: %w", item.ProductID, err)
		}
		if stock < int64(item.Quantity) {
			log.WarnContext(ctx, "insufficient stock, cancelling order",
				"product_id", item.ProductID, "stock", stock, "requested", item.Quantity)
			return p.cancelOrder(ctx, event.OrderID)
		}
	}

	// 2. Charge the order total.
	if err := p.charger.Charge(ctx, event.OrderID, event.Total); err != nil {
		if errors.Is(err, payment.ErrPaymentDeclined) {
			paymentsDeclined.Inc()
			log.WarnContext(ctx, "payment declined, cancelling order")
			return p.cancelOrder(ctx, event.OrderID)
		}
		return fmt.Errorf("payment call failed: %w", err)
	}

	// 3. Decrement stock per item.
	for _, item := range event.Items {
		if err := p.inventory.DecrementStock(ctx, item.ProductID, int64(item.Quantity)); err != nil {
			return fmt.Errorf("failed to decrement stock for %s: %w", item.ProductID, err)
		}
	}

	// 4. Mark the order PROCESSING.
	if err := p.orders.UpdateStatus(ctx, event.OrderID, orderstore.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	// 5. Optionally hand the order to the fulfillment workflow.
	if p.workflowSubject != "" {
		if err := p.publisher.Publish(ctx, events.NewWorkflowStartEvent(p.workflowSubject, event)); err != nil {
			return fmt.Errorf("failed to start fulfillment workflow: %w", err)
		}
	}

	ordersProcessed.Inc()
	log.InfoContext(ctx, "order processed")
	return nil
}

func (p *Processor) cancelOrder(ctx context.Context, orderID int64) error {
	if err := p.orders.UpdateStatus(ctx, orderID, orderstore.StatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	ordersCancelled.Inc()
	return nil
}
