// Package local implements the domain repositories over the local key-value
// store. Each repository writes only under its own namespaced key.
package local

import (
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/domain/cart"
	"github.com/dishly/storefront/internal/store"
)

var _ cart.SnapshotRepository = (*CartRepository)(nil)

// CartRepository persists the cart snapshot under the cart key.
type CartRepository struct {
	store store.Store
}

// NewCartRepository returns a CartRepository over the given store.
func NewCartRepository(s store.Store) *CartRepository {
	return &CartRepository{store: s}
}

// Save serializes the whole snapshot and writes it in one operation.
func (r *CartRepository) Save(snap cart.State) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}
	if err := r.store.Set(store.KeyCart, blob); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	return nil
}

// Load returns the persisted snapshot verbatim. Absence maps to
// cart.ErrNoSnapshot; a malformed blob is a decode error.
func (r *CartRepository) Load() (*cart.State, error) {
	blob, err := r.store.Get(store.KeyCart)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, cart.ErrNoSnapshot
		}
		return nil, errors.Wrap(err, "read cart")
	}

	var snap cart.State
	if err := json.Unmarshal(blob, &snap); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	if snap.Items == nil {
		snap.Items = []cart.LineItem{}
	}
	return &snap, nil
}
