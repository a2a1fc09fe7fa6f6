// Package menu owns the catalog browsing state machine: the current page of
// records, search query, pagination, and loading/error status.
package menu

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/dishly/storefront/internal/catalog"
)

// DefaultItemsPerPage matches the storefront's grid size.
const DefaultItemsPerPage = 9

// State is an immutable snapshot of the menu slice. Error is the empty string
// when no error is present; Loading and a non-empty Error are never
// meaningful at the same time.
type State struct {
	Items        []catalog.Record
	Loading      bool
	Error        string
	SearchQuery  string
	TotalItems   int
	CurrentPage  int
	ItemsPerPage int
}

func (s State) clone() State {
	cp := s
	cp.Items = make([]catalog.Record, len(s.Items))
	copy(cp.Items, s.Items)
	return cp
}

// Machine owns the menu slice. Fetches suspend on the catalog client; stale
// responses are suppressed with a per-machine ticket so the most recently
// issued fetch always wins, regardless of which response arrives first.
type Machine struct {
	client catalog.Client

	mu    sync.Mutex
	state State
	seq   uint64
}

// NewMachine creates a menu machine over the given catalog client.
func NewMachine(client catalog.Client) *Machine {
	return &Machine{
		client: client,
		state: State{
			Items:        []catalog.Record{},
			CurrentPage:  1,
			ItemsPerPage: DefaultItemsPerPage,
		},
	}
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// FetchMenu loads one unfiltered catalog page. On failure the items are
// cleared and the error is recorded on the slice as well as returned.
func (m *Machine) FetchMenu(ctx context.Context, page, limit int) (State, error) {
	ticket := m.begin()

	res, err := m.client.GetAll(ctx, page, limit)
	if err != nil {
		err = errors.Wrap(err, "fetch menu")
	}
	return m.resolve(ticket, res, err)
}

// SearchMenu loads one catalog page matching the query, scoped to the given
// field set. Transition shape is identical to FetchMenu.
func (m *Machine) SearchMenu(ctx context.Context, params catalog.SearchParams) (State, error) {
	ticket := m.begin()

	res, err := m.client.Search(ctx, params)
	if err != nil {
		err = errors.Wrap(err, "search menu")
	}
	return m.resolve(ticket, res, err)
}

// begin marks the slice loading and takes a ticket identifying this fetch as
// the latest issued.
func (m *Machine) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.state.Loading = true
	m.state.Error = ""
	return m.seq
}

// resolve applies a fetch result unless a newer fetch has been issued since
// the ticket was taken, in which case the response is discarded.
func (m *Machine) resolve(ticket uint64, res *catalog.Page, err error) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ticket != m.seq {
		// A newer fetch owns the slice now.
		return m.state.clone(), nil
	}

	m.state.Loading = false
	if err != nil {
		m.state.Items = []catalog.Record{}
		m.state.TotalItems = 0
		m.state.Error = err.Error()
		return m.state.clone(), err
	}

	m.state.Items = res.Results
	m.state.TotalItems = res.TotalResults
	m.state.Error = ""
	return m.state.clone(), nil
}

// SetSearchQuery records the free-text query without performing I/O.
func (m *Machine) SetSearchQuery(q string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SearchQuery = q
	return m.state.clone()
}

// ClearSearch resets the query, pagination, and current results.
func (m *Machine) ClearSearch() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SearchQuery = ""
	m.state.CurrentPage = 1
	m.state.Items = []catalog.Record{}
	m.state.TotalItems = 0
	return m.state.clone()
}

// SetCurrentPage moves pagination without performing I/O.
func (m *Machine) SetCurrentPage(page int) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if page < 1 {
		page = 1
	}
	m.state.CurrentPage = page
	return m.state.clone()
}

// SetItemsPerPage changes the page size without performing I/O.
func (m *Machine) SetItemsPerPage(n int) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n < 1 {
		n = DefaultItemsPerPage
	}
	m.state.ItemsPerPage = n
	return m.state.clone()
}

// ClearError drops a recorded fetch error.
func (m *Machine) ClearError() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Error = ""
	return m.state.clone()
}
