// Package store provides the local persistent key-value store used by the
// storefront state machines. Each state machine writes only under its own
// namespaced key; values are JSON-serialized snapshots of the corresponding
// state slice.
package store

import "github.com/go-faster/errors"

// Namespaced keys. Each state machine owns exactly one write key; the user
// registry is shared read/write between auth operations only.
const (
	KeyCart   = "cart"
	KeyOrders = "orders"
	KeyUsers  = "users"
	KeyUser   = "user"
	KeyToken  = "token"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// Store is a JSON-blob key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the raw JSON blob stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set stores the raw JSON blob under key, replacing any previous value.
	Set(key string, value []byte) error
	// Remove deletes the value under key. Removing an absent key is not an error.
	Remove(key string) error
}
