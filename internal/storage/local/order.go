package local

import (
	"encoding/json"
	"sort"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/domain/order"
	"github.com/dishly/storefront/internal/store"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository persists all orders as a single JSON array under the
// orders key, mirroring the snapshot-per-key store contract.
type OrderRepository struct {
	store store.Store
}

// NewOrderRepository returns an OrderRepository over the given store.
func NewOrderRepository(s store.Store) *OrderRepository {
	return &OrderRepository{store: s}
}

// Create appends the order and rewrites the collection.
func (r *OrderRepository) Create(rec *order.Record) error {
	all, err := r.readAll()
	if err != nil {
		return err
	}
	all = append(all, *rec)
	return r.writeAll(all)
}

// Get returns the order with the given id, or order.ErrNotFound.
func (r *OrderRepository) Get(id string) (*order.Record, error) {
	all, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			rec := all[i]
			return &rec, nil
		}
	}
	return nil, order.ErrNotFound
}

// ListByUser filters to the user's orders, newest first.
func (r *OrderRepository) ListByUser(userID string) ([]order.Record, error) {
	all, err := r.readAll()
	if err != nil {
		return nil, err
	}

	recs := make([]order.Record, 0, len(all))
	for _, rec := range all {
		if rec.UserID == userID {
			recs = append(recs, rec)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

// Update replaces the stored record with the same id.
func (r *OrderRepository) Update(rec *order.Record) error {
	all, err := r.readAll()
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == rec.ID {
			all[i] = *rec
			return r.writeAll(all)
		}
	}
	return order.ErrNotFound
}

func (r *OrderRepository) readAll() ([]order.Record, error) {
	blob, err := r.store.Get(store.KeyOrders)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read orders")
	}

	var all []order.Record
	if err := json.Unmarshal(blob, &all); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return all, nil
}

func (r *OrderRepository) writeAll(all []order.Record) error {
	blob, err := json.Marshal(all)
	if err != nil {
		return errors.Wrap(err, "marshal orders")
	}
	if err := r.store.Set(store.KeyOrders, blob); err != nil {
		return errors.Wrap(err, "persist orders")
	}
	return nil
}
