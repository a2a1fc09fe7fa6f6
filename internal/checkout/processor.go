// Package checkout provides the simulated payment submission used by the
// order flow. No real payment gateway is ever contacted.
package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/domain/order"
)

// DefaultDelay is the fixed simulated processing time.
const DefaultDelay = 1500 * time.Millisecond

// ErrInvalidAmount rejects non-positive charge amounts.
var ErrInvalidAmount = errors.New("charge amount must be positive")

var _ order.PaymentProcessor = (*Simulator)(nil)

// Simulator pretends to submit a payment by waiting a fixed delay. The wait
// yields on context cancellation instead of blocking the caller's loop.
type Simulator struct {
	delay time.Duration
}

// NewSimulator creates a Simulator. A non-positive delay falls back to
// DefaultDelay; tests pass a tiny delay to stay fast.
func NewSimulator(delay time.Duration) *Simulator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Simulator{delay: delay}
}

// Submit waits the simulated processing delay and reports success.
func (s *Simulator) Submit(ctx context.Context, amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "checkout interrupted")
	case <-timer.C:
		return nil
	}
}
