package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMockCharger_AlwaysApproves(t *testing.T) {
	charger := &MockCharger{SuccessRate: 1, Delay: time.Millisecond}

	err := charger.Charge(context.Background(), 1, decimal.NewFromInt(25))

	assert.NoError(t, err)
}

func TestMockCharger_AlwaysDeclines(t *testing.T) {
	charger := &MockCharger{SuccessRate: 0, Delay: time.Millisecond}

	err := charger.Charge(context.Background(), 1, decimal.NewFromInt(25))

	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestMockCharger_RespectsContext(t *testing.T) {
	charger := &MockCharger{SuccessRate: 1, Delay: time.Minute}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := charger.Charge(ctx, 1, decimal.NewFromInt(25))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
