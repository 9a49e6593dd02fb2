// Package payment simulates the payment gateway call of the
// fulfillment pipeline.
package payment

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPaymentDeclined is returned when the simulated gateway declines a
// charge.
var ErrPaymentDeclined = errors.New("payment declined")

// Charger charges the order total against a payment gateway.
type Charger interface {
	Charge(ctx context.Context, orderID int64, amount decimal.Decimal) error
}

// MockCharger approves a fixed fraction of charges after an artificial
// gateway delay.
type MockCharger struct {
	SuccessRate float64
	Delay       time.Duration
}

// NewMockCharger creates a gateway stub with the production defaults:
// 95% approval after a 500ms round trip.
func NewMockCharger() *MockCharger {
	return &MockCharger{SuccessRate: 0.95, Delay: 500 * time.Millisecond}
}

var _ Charger = (*MockCharger)(nil)

func (c *MockCharger) Charge(ctx context.Context, _ int64, _ decimal.Decimal) error {
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	if rand.Float64() >= c.SuccessRate {
		return ErrPaymentDeclined
	}
	return nil
}
