package menu

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishly/storefront/internal/catalog"
)

// --- Mock catalog client ---

type mockClient struct {
	mu      sync.Mutex
	page    *catalog.Page
	err     error
	getAll  func(ctx context.Context, page, limit int) (*catalog.Page, error)
	search  func(ctx context.Context, p catalog.SearchParams) (*catalog.Page, error)
	calls   int
	lastArg catalog.SearchParams
}

func (m *mockClient) GetAll(ctx context.Context, page, limit int) (*catalog.Page, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.getAll != nil {
		return m.getAll(ctx, page, limit)
	}
	return m.page, m.err
}

func (m *mockClient) Search(ctx context.Context, p catalog.SearchParams) (*catalog.Page, error) {
	m.mu.Lock()
	m.calls++
	m.lastArg = p
	m.mu.Unlock()
	if m.search != nil {
		return m.search(ctx, p)
	}
	return m.page, m.err
}

func somePage(n int) *catalog.Page {
	recs := make([]catalog.Record, n)
	for i := range recs {
		recs[i] = catalog.Record{ID: string(rune('a' + i)), Title: "Recipe", PricePerServing: 1050}
	}
	return &catalog.Page{Results: recs, TotalResults: 42}
}

// --- Tests ---

func TestFetchMenu_Success(t *testing.T) {
	m := NewMachine(&mockClient{page: somePage(3)})

	state, err := m.FetchMenu(context.Background(), 1, 9)

	require.NoError(t, err)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Len(t, state.Items, 3)
	assert.Equal(t, 42, state.TotalItems)
}

func TestFetchMenu_FailureClearsItems(t *testing.T) {
	client := &mockClient{page: somePage(3)}
	m := NewMachine(client)
	_, err := m.FetchMenu(context.Background(), 1, 9)
	require.NoError(t, err)

	client.page = nil
	client.err = errors.New("provider unreachable")
	state, err := m.FetchMenu(context.Background(), 2, 9)

	require.Error(t, err)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.TotalItems)
	assert.Contains(t, state.Error, "provider unreachable")
}

func TestSearchMenu_FailureTransition(t *testing.T) {
	client := &mockClient{err: errors.New("boom")}
	m := NewMachine(client)

	state, err := m.SearchMenu(context.Background(), catalog.SearchParams{
		Query: "noodles", Page: 1, Limit: 9, Fields: []string{"title", "summary", "diets"},
	})

	require.Error(t, err)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.TotalItems)
	assert.NotEmpty(t, state.Error)
	assert.False(t, state.Loading)
}

func TestSearchMenu_PassesParams(t *testing.T) {
	client := &mockClient{page: somePage(1)}
	m := NewMachine(client)

	_, err := m.SearchMenu(context.Background(), catalog.SearchParams{
		Query: "ramen", Page: 3, Limit: 12, Fields: []string{"title"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ramen", client.lastArg.Query)
	assert.Equal(t, 3, client.lastArg.Page)
	assert.Equal(t, 12, client.lastArg.Limit)
}

func TestFetchMenu_StaleResponseSuppressed(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	slow := somePage(1)
	fast := somePage(5)

	client := &mockClient{}
	client.getAll = func(_ context.Context, page, _ int) (*catalog.Page, error) {
		if page == 1 {
			close(firstStarted)
			<-release
			return slow, nil
		}
		return fast, nil
	}
	m := NewMachine(client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.FetchMenu(context.Background(), 1, 9)
	}()
	<-firstStarted

	// Second fetch is issued later and resolves first: it must win.
	state, err := m.FetchMenu(context.Background(), 2, 9)
	require.NoError(t, err)
	assert.Len(t, state.Items, 5)

	// The first fetch resolves late; its response must be discarded.
	close(release)
	wg.Wait()

	final := m.Snapshot()
	assert.Len(t, final.Items, 5, "stale response must not overwrite newer result")
	assert.False(t, final.Loading)
}

func TestSetters_NoIO(t *testing.T) {
	client := &mockClient{}
	m := NewMachine(client)

	state := m.SetSearchQuery("tacos")
	assert.Equal(t, "tacos", state.SearchQuery)

	state = m.SetCurrentPage(4)
	assert.Equal(t, 4, state.CurrentPage)

	state = m.SetItemsPerPage(12)
	assert.Equal(t, 12, state.ItemsPerPage)

	assert.Zero(t, client.calls, "local setters must not hit the catalog")
}

func TestClearSearch_ResetsQueryAndResults(t *testing.T) {
	m := NewMachine(&mockClient{page: somePage(3)})
	_, err := m.FetchMenu(context.Background(), 2, 9)
	require.NoError(t, err)
	m.SetSearchQuery("soup")
	m.SetCurrentPage(2)

	state := m.ClearSearch()

	assert.Empty(t, state.SearchQuery)
	assert.Equal(t, 1, state.CurrentPage)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.TotalItems)
}

func TestClearError(t *testing.T) {
	client := &mockClient{err: errors.New("boom")}
	m := NewMachine(client)
	_, err := m.FetchMenu(context.Background(), 1, 9)
	require.Error(t, err)

	state := m.ClearError()
	assert.Empty(t, state.Error)
}

func TestDefaults(t *testing.T) {
	m := NewMachine(&mockClient{})
	state := m.Snapshot()

	assert.Equal(t, 1, state.CurrentPage)
	assert.Equal(t, DefaultItemsPerPage, state.ItemsPerPage)
	assert.Empty(t, state.Items)
}
