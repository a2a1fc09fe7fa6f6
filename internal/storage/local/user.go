package local

import (
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/domain/auth"
	"github.com/dishly/storefront/internal/store"
)

var _ auth.UserRepository = (*UserRepository)(nil)

// UserRepository is the durable user registry, a JSON array under the users
// key. It is the only key logout leaves untouched.
type UserRepository struct {
	store store.Store
}

// NewUserRepository returns a UserRepository over the given store.
func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

// FindByEmail looks up a registry entry by email, case-insensitively.
// Absence maps to auth.ErrInvalidCredentials so callers never learn whether
// an email is registered.
func (r *UserRepository) FindByEmail(email string) (*auth.StoredUser, error) {
	users, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, auth.ErrInvalidCredentials
}

// Create appends a registry entry, rejecting duplicate emails.
func (r *UserRepository) Create(u auth.StoredUser) error {
	users, err := r.readAll()
	if err != nil {
		return err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, u.Email) {
			return auth.ErrEmailExists
		}
	}

	users = append(users, u)
	blob, err := json.Marshal(users)
	if err != nil {
		return errors.Wrap(err, "marshal users")
	}
	if err := r.store.Set(store.KeyUsers, blob); err != nil {
		return errors.Wrap(err, "persist users")
	}
	return nil
}

func (r *UserRepository) readAll() ([]auth.StoredUser, error) {
	blob, err := r.store.Get(store.KeyUsers)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read users")
	}

	var users []auth.StoredUser
	if err := json.Unmarshal(blob, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}
