package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishly/storefront/internal/catalog"
	"github.com/dishly/storefront/internal/checkout"
	"github.com/dishly/storefront/internal/domain/auth"
	"github.com/dishly/storefront/internal/domain/order"
	"github.com/dishly/storefront/internal/store"
)

type staticCatalog struct {
	page *catalog.Page
}

func (c *staticCatalog) GetAll(context.Context, int, int) (*catalog.Page, error) {
	return c.page, nil
}

func (c *staticCatalog) Search(context.Context, catalog.SearchParams) (*catalog.Page, error) {
	return c.page, nil
}

func testRecord(id string, cents int64) catalog.Record {
	return catalog.Record{ID: id, Title: "Recipe " + id, PricePerServing: cents}
}

func newTestStorefront(s store.Store) *Storefront {
	client := &staticCatalog{page: &catalog.Page{
		Results:      []catalog.Record{testRecord("r1", 1200)},
		TotalResults: 1,
	}}
	return NewStorefront(s, client, checkout.NewSimulator(time.Millisecond), nil)
}

func TestCheckoutFlow_OrderPersistedThenCartCleared(t *testing.T) {
	s := store.NewMemStore()
	sf := newTestStorefront(s)

	_, err := sf.Auth.Register(auth.Registration{Name: "Demo", Email: "demo@example.com", Password: "secret123"})
	require.NoError(t, err)

	sf.Cart.AddToCart(testRecord("r1", 1200))
	sf.Cart.AddToCart(testRecord("r1", 1200))
	require.Equal(t, int64(3140), sf.Cart.Snapshot().Total)

	state, err := sf.Checkout(context.Background(), order.ShippingDetails{Name: "Demo"})
	require.NoError(t, err)
	require.Len(t, state.Orders, 1)
	assert.Equal(t, int64(3140), state.Orders[0].Total)
	assert.Equal(t, order.StatusPending, state.Orders[0].Status)

	// Cart is cleared in memory and in the store.
	cartSnap := sf.Cart.Snapshot()
	assert.Empty(t, cartSnap.Items)
	assert.Zero(t, cartSnap.Total)

	blob, err := s.Get(store.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"subtotal":0,"tax":0,"shipping":0,"total":0}`, string(blob))
}

func TestCheckoutFlow_EmptyCartFails(t *testing.T) {
	sf := newTestStorefront(store.NewMemStore())
	_, err := sf.Auth.Register(auth.Registration{Name: "Demo", Email: "demo@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = sf.Checkout(context.Background(), order.ShippingDetails{})
	require.ErrorIs(t, err, order.ErrEmptyCart)
}

func TestCheckoutFlow_AnonymousFails(t *testing.T) {
	sf := newTestStorefront(store.NewMemStore())
	sf.Cart.AddToCart(testRecord("r1", 1200))

	_, err := sf.Checkout(context.Background(), order.ShippingDetails{})
	require.ErrorIs(t, err, order.ErrNotAuthenticated)

	assert.NotEmpty(t, sf.Cart.Snapshot().Items, "failed checkout leaves the cart alone")
}

func TestRestore_CartRoundTrip(t *testing.T) {
	s := store.NewMemStore()

	// A previous session's snapshot, totals deliberately inconsistent to
	// prove they are restored verbatim.
	snapshot := `{
		"items":[{"id":"r9","title":"Pad Thai","image":"pad.jpg","pricePerServing":1500,"quantity":3}],
		"subtotal":7777,"tax":1,"shipping":2,"total":3
	}`
	require.NoError(t, s.Set(store.KeyCart, []byte(snapshot)))

	sf := newTestStorefront(s)
	sf.Restore()

	cartSnap := sf.Cart.Snapshot()
	require.Len(t, cartSnap.Items, 1)
	assert.Equal(t, "r9", cartSnap.Items[0].ID)
	assert.Equal(t, int64(7777), cartSnap.Subtotal)
	assert.Equal(t, int64(1), cartSnap.Tax)
	assert.Equal(t, int64(2), cartSnap.Shipping)
	assert.Equal(t, int64(3), cartSnap.Total)
}

func TestRestore_MalformedCartLeavesFreshState(t *testing.T) {
	s := store.NewMemStore()
	require.NoError(t, s.Set(store.KeyCart, []byte(`{broken`)))

	sf := newTestStorefront(s)
	sf.Restore()

	assert.Empty(t, sf.Cart.Snapshot().Items)
}

func TestRestore_Session(t *testing.T) {
	s := store.NewMemStore()
	sf := newTestStorefront(s)
	_, err := sf.Auth.Register(auth.Registration{Name: "Demo", Email: "demo@example.com", Password: "secret123"})
	require.NoError(t, err)

	// A new process over the same store sees the session.
	sf2 := newTestStorefront(s)
	sf2.Restore()

	snap := sf2.Auth.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "demo@example.com", snap.User.Email)
}

func TestLogout_PurgesSessionKeepsRegistry(t *testing.T) {
	s := store.NewMemStore()
	sf := newTestStorefront(s)
	_, err := sf.Auth.Register(auth.Registration{Name: "Demo", Email: "demo@example.com", Password: "secret123"})
	require.NoError(t, err)
	sf.Cart.AddToCart(testRecord("r1", 1200))

	sf.Auth.Logout()

	for _, key := range []string{store.KeyUser, store.KeyToken, store.KeyCart, store.KeyOrders} {
		_, err := s.Get(key)
		assert.ErrorIs(t, err, store.ErrNotFound, key)
	}

	// The registry survives: the same user can log back in.
	state, err := sf.Auth.Login(auth.Credentials{Email: "demo@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)
}

func TestPersistenceFailure_InMemoryStateAuthoritative(t *testing.T) {
	s := store.NewMemStore()
	sf := newTestStorefront(s)

	s.FailSet = assert.AnError

	state := sf.Cart.AddToCart(testRecord("r1", 1200))

	require.Len(t, state.Items, 1, "store failure must not roll back the mutation")
	assert.Equal(t, int64(1200), state.Subtotal)
}
