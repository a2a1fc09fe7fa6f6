package local

import (
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/domain/auth"
	"github.com/dishly/storefront/internal/store"
)

var _ auth.SessionRepository = (*SessionRepository)(nil)

// SessionRepository persists the current user and token under their own
// keys, and purges every session artifact on logout.
type SessionRepository struct {
	store store.Store
}

// NewSessionRepository returns a SessionRepository over the given store.
func NewSessionRepository(s store.Store) *SessionRepository {
	return &SessionRepository{store: s}
}

// Save persists the public user and the session token.
func (r *SessionRepository) Save(u auth.User, token string) error {
	blob, err := json.Marshal(u)
	if err != nil {
		return errors.Wrap(err, "marshal user")
	}
	if err := r.store.Set(store.KeyUser, blob); err != nil {
		return errors.Wrap(err, "persist user")
	}

	tblob, err := json.Marshal(token)
	if err != nil {
		return errors.Wrap(err, "marshal token")
	}
	if err := r.store.Set(store.KeyToken, tblob); err != nil {
		return errors.Wrap(err, "persist token")
	}
	return nil
}

// Load returns the persisted session.
func (r *SessionRepository) Load() (*auth.User, string, error) {
	ublob, err := r.store.Get(store.KeyUser)
	if err != nil {
		return nil, "", errors.Wrap(err, "read user")
	}
	var u auth.User
	if err := json.Unmarshal(ublob, &u); err != nil {
		return nil, "", errors.Wrap(err, "decode user")
	}

	tblob, err := r.store.Get(store.KeyToken)
	if err != nil {
		return nil, "", errors.Wrap(err, "read token")
	}
	var token string
	if err := json.Unmarshal(tblob, &token); err != nil {
		return nil, "", errors.Wrap(err, "decode token")
	}
	return &u, token, nil
}

// Purge invalidates every persisted session artifact except the durable user
// registry: the session itself, the cart, and the order history.
func (r *SessionRepository) Purge() error {
	for _, key := range []string{store.KeyUser, store.KeyToken, store.KeyCart, store.KeyOrders} {
		if err := r.store.Remove(key); err != nil {
			return errors.Wrapf(err, "remove %q", key)
		}
	}
	return nil
}
