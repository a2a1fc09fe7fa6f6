package order

import (
	"context"
	"sync"

	"github.com/dishly/storefront/internal/domain/cart"
)

// State is an immutable snapshot of the order history slice.
type State struct {
	Orders  []Record
	Loading bool
	Error   string
}

func (s State) clone() State {
	cp := s
	cp.Orders = make([]Record, len(s.Orders))
	copy(cp.Orders, s.Orders)
	return cp
}

// ClearCartFunc empties the cart slice. Registered at bootstrap; invoked
// after successful order persistence as a best-effort side effect.
type ClearCartFunc func()

// Machine owns the order history slice and coordinates the mandated
// create-order -> clear-cart causal sequence. It never reads another
// machine's state directly: the dispatcher passes the cart snapshot and the
// current user id into CreateOrder explicitly.
type Machine struct {
	svc       *Service
	clearCart ClearCartFunc

	mu    sync.Mutex
	state State
}

// NewMachine creates an order machine over the given service. clearCart may
// be nil when no cart coupling is wanted (tests).
func NewMachine(svc *Service, clearCart ClearCartFunc) *Machine {
	return &Machine{
		svc:       svc,
		clearCart: clearCart,
		state:     State{Orders: []Record{}},
	}
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// CreateOrder places an order from the given cart snapshot. On success the
// new order is prepended to the history slice and the cart clear is
// triggered; the clear always follows persistence, never precedes it.
func (m *Machine) CreateOrder(ctx context.Context, userID string, cartSnap cart.State, shipping ShippingDetails) (State, error) {
	res, err := m.svc.PlaceOrder(ctx, PlaceOrderRequest{
		UserID:   userID,
		Cart:     cartSnap,
		Shipping: shipping,
	})

	m.mu.Lock()
	if err != nil {
		m.state.Error = err.Error()
		snap := m.state.clone()
		m.mu.Unlock()
		return snap, err
	}
	m.state.Orders = append([]Record{*res.Order}, m.state.Orders...)
	m.state.Error = ""
	snap := m.state.clone()
	m.mu.Unlock()

	if res.ClearCart && m.clearCart != nil {
		m.clearCart()
	}
	return snap, nil
}

// GetUserOrders loads the user's persisted orders, newest first.
func (m *Machine) GetUserOrders(userID string) (State, error) {
	m.mu.Lock()
	m.state.Loading = true
	m.state.Error = ""
	m.mu.Unlock()

	recs, err := m.svc.ListUserOrders(userID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	if err != nil {
		m.state.Orders = []Record{}
		m.state.Error = err.Error()
		return m.state.clone(), err
	}
	m.state.Orders = recs
	return m.state.clone(), nil
}

// CancelOrder cancels a pending order and updates it in the history slice.
// Failures leave the slice untouched.
func (m *Machine) CancelOrder(orderID string) (State, error) {
	rec, err := m.svc.CancelOrder(orderID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return m.state.clone(), err
	}
	for i := range m.state.Orders {
		if m.state.Orders[i].ID == rec.ID {
			m.state.Orders[i] = *rec
			break
		}
	}
	return m.state.clone(), nil
}
