package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/dishly/storefront/internal/catalog"
	"github.com/dishly/storefront/internal/domain/auth"
	"github.com/dishly/storefront/internal/domain/cart"
	"github.com/dishly/storefront/internal/domain/menu"
	"github.com/dishly/storefront/internal/domain/order"
	"github.com/dishly/storefront/internal/storage/local"
	"github.com/dishly/storefront/internal/store"
)

// Storefront bundles the four state machines over one shared store. It is
// the process-level dispatcher: the only place where cross-slice coupling
// (checkout reads cart and auth, order creation clears the cart) is wired.
type Storefront struct {
	Cart   *cart.Machine
	Menu   *menu.Machine
	Orders *order.Machine
	Auth   *auth.Machine

	lg *zap.Logger
}

// NewStorefront wires the state machines, repositories, and the cart
// persistence observer.
func NewStorefront(s store.Store, client catalog.Client, payment order.PaymentProcessor, lg *zap.Logger) *Storefront {
	if lg == nil {
		lg = zap.NewNop()
	}

	cartRepo := local.NewCartRepository(s)
	cartM := cart.NewMachine(cartRepo)
	// The sole cart observer: persist the slice after every accepted
	// mutation. A store failure never unwinds the in-memory mutation.
	cartM.Register(func(snap cart.State) {
		if err := cartRepo.Save(snap); err != nil {
			lg.Warn("Failed to persist cart", zap.Error(err))
		}
	})

	orderSvc := order.NewService(local.NewOrderRepository(s), payment)
	orderM := order.NewMachine(orderSvc, func() { cartM.Clear() })

	authM := auth.NewMachine(
		local.NewUserRepository(s),
		local.NewSessionRepository(s),
		lg,
	)

	return &Storefront{
		Cart:   cartM,
		Menu:   menu.NewMachine(client),
		Orders: orderM,
		Auth:   authM,
		lg:     lg,
	}
}

// Checkout places an order from the current cart for the current user. The
// cart snapshot and user id are captured here and passed in explicitly; the
// order machine never reads other slices itself.
func (sf *Storefront) Checkout(ctx context.Context, shipping order.ShippingDetails) (order.State, error) {
	return sf.Orders.CreateOrder(ctx, sf.Auth.UserID(), sf.Cart.Snapshot(), shipping)
}

// Restore rehydrates persisted state at process start: the auth session and
// the cart snapshot. Both are best-effort; a missing or malformed snapshot
// leaves the fresh state in place.
func (sf *Storefront) Restore() {
	sf.Auth.Restore()

	if err := sf.Cart.Load(); err != nil {
		if errors.Is(err, cart.ErrNoSnapshot) {
			return
		}
		sf.lg.Warn("Failed to load persisted cart", zap.Error(err))
	}
}
