package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/dishly/storefront/internal/domain/cart"
)

// PlaceOrderRequest is the input for placing an order. The cart snapshot is
// passed in explicitly so the service never reaches into another state
// machine's slice.
type PlaceOrderRequest struct {
	UserID   string
	Cart     cart.State
	Shipping ShippingDetails
}

// PlaceOrderResult holds the persisted order plus the instruction for the
// caller to clear the cart. The clear must follow successful persistence,
// never precede it.
type PlaceOrderResult struct {
	Order *Record
	// ClearCart instructs the dispatcher to empty the cart slice. Always true
	// on success; the clear itself is best-effort.
	ClearCart bool
}

// Service encapsulates order business logic over the repository and the
// payment processor.
type Service struct {
	orders  Repository
	payment PaymentProcessor
	now     func() time.Time
}

// NewService creates an order Service.
func NewService(orders Repository, payment PaymentProcessor) *Service {
	return &Service{
		orders:  orders,
		payment: payment,
		now:     time.Now,
	}
}

// PlaceOrder validates the cart snapshot, submits the (simulated) payment,
// and persists a frozen order record with status pending.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if len(req.Cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.UserID == "" {
		return nil, ErrNotAuthenticated
	}

	if err := s.payment.Submit(ctx, req.Cart.Total); err != nil {
		return nil, errors.Wrap(err, "submit payment")
	}

	items := make([]cart.LineItem, len(req.Cart.Items))
	copy(items, req.Cart.Items)

	rec := &Record{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Items:     items,
		Subtotal:  req.Cart.Subtotal,
		Tax:       req.Cart.Tax,
		Shipping:  req.Cart.Shipping,
		Total:     req.Cart.Total,
		Status:    StatusPending,
		Details:   req.Shipping,
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.Create(rec); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return &PlaceOrderResult{Order: rec, ClearCart: true}, nil
}

// ListUserOrders returns the user's orders, newest first.
func (s *Service) ListUserOrders(userID string) ([]Record, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	recs, err := s.orders.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return recs, nil
}

// CancelOrder transitions a pending order to cancelled and stamps
// CancelledAt. Any other starting status fails with ErrNotCancellable and
// leaves the record unchanged.
func (s *Service) CancelOrder(orderID string) (*Record, error) {
	rec, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusPending {
		return nil, ErrNotCancellable
	}

	cancelledAt := s.now().UTC()
	rec.Status = StatusCancelled
	rec.CancelledAt = &cancelledAt

	if err := s.orders.Update(rec); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return rec, nil
}
