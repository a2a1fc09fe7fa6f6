// Package order owns order creation, listing, and cancellation. An order is
// a frozen snapshot of the cart taken at creation time; later cart mutations
// never affect a placed order.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/domain/cart"
)

// Status enumerates order lifecycle states. The only transition the core
// permits is pending -> cancelled.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCancelled  Status = "cancelled"
)

// Sentinel errors for order validation.
var (
	// ErrEmptyCart rejects checkout with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotAuthenticated rejects checkout without a signed-in user.
	ErrNotAuthenticated = errors.New("user not authenticated")
	// ErrNotFound is returned for unknown order ids.
	ErrNotFound = errors.New("order not found")
	// ErrNotCancellable is returned when cancelling any non-pending order.
	ErrNotCancellable = errors.New("only pending orders can be cancelled")
)

// ShippingDetails is the delivery information collected at checkout.
type ShippingDetails struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// Record is a placed order. Items and totals are copies frozen at creation;
// all monetary fields are integer cents.
type Record struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []cart.LineItem `json:"items"`
	Subtotal    int64           `json:"subtotal"`
	Tax         int64           `json:"tax"`
	Shipping    int64           `json:"shipping"`
	Total       int64           `json:"total"`
	Status      Status          `json:"status"`
	Details     ShippingDetails `json:"shippingDetails"`
	CreatedAt   time.Time       `json:"createdAt"`
	CancelledAt *time.Time      `json:"cancelledAt,omitempty"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(rec *Record) error
	Get(id string) (*Record, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(userID string) ([]Record, error)
	// Update replaces the stored record with the same id, or returns
	// ErrNotFound.
	Update(rec *Record) error
}

// PaymentProcessor submits a checkout payment. The storefront ships with a
// simulated implementation; see the checkout package.
type PaymentProcessor interface {
	Submit(ctx context.Context, amountCents int64) error
}
