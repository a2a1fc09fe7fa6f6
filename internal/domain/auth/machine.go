package auth

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// State is an immutable snapshot of the auth slice. Two states exist:
// anonymous (User nil) and authenticated. Failed login/register keep the
// machine anonymous with Error set.
type State struct {
	IsAuthenticated bool
	User            *User
	Token           string
	Error           string
}

func (s State) clone() State {
	cp := s
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	return cp
}

// Machine owns the auth slice.
type Machine struct {
	users    UserRepository
	sessions SessionRepository
	lg       *zap.Logger

	mu    sync.Mutex
	state State
}

// NewMachine creates an anonymous auth machine.
func NewMachine(users UserRepository, sessions SessionRepository, lg *zap.Logger) *Machine {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Machine{users: users, sessions: sessions, lg: lg}
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// UserID returns the authenticated user's id, or the empty string.
func (m *Machine) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.IsAuthenticated || m.state.User == nil {
		return ""
	}
	return m.state.User.ID
}

// Login authenticates against the user registry. On failure the machine
// stays anonymous with an error annotation.
func (m *Machine) Login(creds Credentials) (State, error) {
	stored, err := m.users.FindByEmail(creds.Email)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			err = errors.Wrap(err, "lookup user")
		}
		return m.fail(err), err
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(creds.Password)) != nil {
		return m.fail(ErrInvalidCredentials), ErrInvalidCredentials
	}

	return m.establish(stored.User), nil
}

// Register creates a new registry entry and logs the new user in. Fails with
// ErrEmailExists when the email is taken.
func (m *Machine) Register(reg Registration) (State, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		err = errors.Wrap(err, "hash password")
		return m.fail(err), err
	}

	stored := StoredUser{
		User: User{
			ID:    uuid.New().String(),
			Name:  reg.Name,
			Email: reg.Email,
		},
		PasswordHash: string(hash),
	}
	if err := m.users.Create(stored); err != nil {
		return m.fail(err), err
	}

	return m.establish(stored.User), nil
}

// Logout clears the session and returns the machine to anonymous. The
// durable user registry is kept; every other persisted session artifact is
// invalidated.
func (m *Machine) Logout() State {
	if err := m.sessions.Purge(); err != nil {
		m.lg.Warn("Failed to purge persisted session", zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	return m.state.clone()
}

// Restore re-establishes a previously persisted session, typically at
// process start. No error is surfaced when no session exists.
func (m *Machine) Restore() State {
	u, token, err := m.sessions.Load()
	if err != nil {
		return m.Snapshot()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{IsAuthenticated: true, User: u, Token: token}
	return m.state.clone()
}

// establish persists the session and flips the machine to authenticated.
func (m *Machine) establish(u User) State {
	token := "token_" + uuid.New().String()
	if err := m.sessions.Save(u, token); err != nil {
		// In-memory state is authoritative; persistence is best-effort.
		m.lg.Warn("Failed to persist session", zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{IsAuthenticated: true, User: &u, Token: token}
	return m.state.clone()
}

func (m *Machine) fail(err error) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Error = err.Error()
	return m.state.clone()
}
