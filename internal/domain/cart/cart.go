// Package cart owns the shopping cart state machine: line items plus derived
// monetary totals, recomputed after every mutation and mirrored to the local
// store by an observer registered at bootstrap.
//
// All money is integer cents. Floating point never touches cart arithmetic.
package cart

import "github.com/go-faster/errors"

// Quantity bounds for a single line item. Increments past MaxQuantity are
// silently dropped; requested quantities are clamped into range.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// Shipping and tax policy, in cents.
const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 5000
	// FlatShipping is charged below the free-shipping threshold.
	FlatShipping = 500
)

// ErrNoSnapshot is returned by Load when no cart has ever been persisted.
var ErrNoSnapshot = errors.New("no persisted cart snapshot")

// LineItem is one distinct catalog record plus its quantity in the cart.
type LineItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Image           string `json:"image"`
	PricePerServing int64  `json:"pricePerServing"`
	Quantity        int    `json:"quantity"`
}

// State is an immutable snapshot of the cart. The four derived totals are
// never settable independently; they are recomputed from Items after every
// mutation and trusted verbatim when restored from the store.
type State struct {
	Items    []LineItem `json:"items"`
	Subtotal int64      `json:"subtotal"`
	Tax      int64      `json:"tax"`
	Shipping int64      `json:"shipping"`
	Total    int64      `json:"total"`
}

// clone returns a deep copy so callers can never alias machine-owned state.
func (s State) clone() State {
	cp := s
	cp.Items = make([]LineItem, len(s.Items))
	copy(cp.Items, s.Items)
	return cp
}

// computeTotals derives subtotal, tax, shipping, and total from Items.
// Tax is 10% of the subtotal, rounded half up in integer arithmetic.
// The shipping formula applies to the empty cart too: only Clear zeroes
// everything.
func (s *State) computeTotals() {
	var subtotal int64
	for _, item := range s.Items {
		subtotal += item.PricePerServing * int64(item.Quantity)
	}
	s.Subtotal = subtotal
	s.Tax = (subtotal + 5) / 10
	if subtotal >= FreeShippingThreshold {
		s.Shipping = 0
	} else {
		s.Shipping = FlatShipping
	}
	s.Total = s.Subtotal + s.Tax + s.Shipping
}

// SnapshotRepository persists and restores cart snapshots.
type SnapshotRepository interface {
	Save(State) error
	// Load returns the persisted snapshot, ErrNoSnapshot when absent, or a
	// decode error when the stored blob is malformed.
	Load() (*State, error)
}
