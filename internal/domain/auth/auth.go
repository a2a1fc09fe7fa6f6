// Package auth owns the authentication state machine: the current user and
// session token, backed by a durable user registry in the local store.
package auth

import "github.com/go-faster/errors"

// Sentinel errors for the two defined failure kinds.
var (
	// ErrInvalidCredentials is returned when the user is absent or the
	// password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailExists is returned by register when the email is taken.
	ErrEmailExists = errors.New("email already exists")
)

// User is the public identity stored in the session. It never carries the
// password hash.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StoredUser is a registry entry: the public identity plus the bcrypt hash
// of the password.
type StoredUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// Credentials is the login input.
type Credentials struct {
	Email    string
	Password string
}

// Registration is the register input.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// UserRepository is the durable user registry. It survives logout.
type UserRepository interface {
	// FindByEmail returns ErrInvalidCredentials when no user has that email.
	FindByEmail(email string) (*StoredUser, error)
	// Create appends a new registry entry, or returns ErrEmailExists.
	Create(u StoredUser) error
}

// SessionRepository persists the current session.
type SessionRepository interface {
	Save(u User, token string) error
	// Load returns the persisted session, or an error when none exists.
	Load() (*User, string, error)
	// Purge removes every persisted session artifact except the user
	// registry.
	Purge() error
}
