package cart

import (
	"sync"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/catalog"
)

// Observer is invoked synchronously with the new state after every accepted
// mutation. The bootstrap registers exactly one observer whose single
// responsibility is persisting the cart slice; observer failures must be
// handled inside the observer and never unwind the mutation.
type Observer func(State)

// Machine owns the cart slice. Every operation runs to completion under the
// machine lock, so observers and Snapshot callers never see a partially
// updated cart.
type Machine struct {
	mu        sync.Mutex
	state     State
	snapshots SnapshotRepository
	observers []Observer
}

// NewMachine creates an empty cart backed by the given snapshot repository.
func NewMachine(snapshots SnapshotRepository) *Machine {
	return &Machine{snapshots: snapshots}
}

// Register adds an observer. Call during bootstrap, before dispatching
// operations.
func (m *Machine) Register(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, obs)
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// AddToCart adds the record as a new line item with quantity 1, or increments
// the existing line's quantity capped at MaxQuantity. Excess increments are
// dropped without error.
func (m *Machine) AddToCart(rec catalog.Record) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i := range m.state.Items {
		if m.state.Items[i].ID == rec.ID {
			if m.state.Items[i].Quantity < MaxQuantity {
				m.state.Items[i].Quantity++
			}
			found = true
			break
		}
	}
	if !found {
		m.state.Items = append(m.state.Items, LineItem{
			ID:              rec.ID,
			Title:           rec.Title,
			Image:           rec.Image,
			PricePerServing: rec.PricePerServing,
			Quantity:        1,
		})
	}

	return m.commit()
}

// RemoveFromCart deletes the line item with the given id. Removing an absent
// id is a no-op, not an error, but totals are still recomputed and persisted.
func (m *Machine) RemoveFromCart(itemID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.state.Items[:0]
	for _, item := range m.state.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	m.state.Items = kept

	return m.commit()
}

// UpdateQuantity sets the line item's quantity, clamped to
// [MinQuantity, MaxQuantity]. Unknown ids are a no-op and do not persist.
func (m *Machine) UpdateQuantity(itemID string, quantity int) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Items {
		if m.state.Items[i].ID == itemID {
			m.state.Items[i].Quantity = clampQuantity(quantity)
			return m.commit()
		}
	}
	return m.state.clone()
}

// Clear empties the cart and zeroes every total.
func (m *Machine) Clear() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{Items: []LineItem{}}
	snap := m.state.clone()
	m.notify(snap)
	return snap
}

// Load replaces the in-memory cart with the persisted snapshot, trusting its
// items and totals verbatim (no recomputation). When the snapshot is absent
// or malformed the current state is left untouched and a non-fatal error is
// returned.
func (m *Machine) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.snapshots.Load()
	if err != nil {
		return errors.Wrap(err, "load cart")
	}
	m.state = snap.clone()
	return nil
}

// commit recomputes derived totals, notifies observers, and returns a copy of
// the new state. Callers must hold m.mu.
func (m *Machine) commit() State {
	m.state.computeTotals()
	snap := m.state.clone()
	m.notify(snap)
	return snap
}

func (m *Machine) notify(snap State) {
	for _, obs := range m.observers {
		obs(snap)
	}
}

func clampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
