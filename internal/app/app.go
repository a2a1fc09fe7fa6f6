package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dishly/storefront/internal/catalog"
	"github.com/dishly/storefront/internal/checkout"
	"github.com/dishly/storefront/internal/store"
	"github.com/dishly/storefront/pkg/health"
	"github.com/dishly/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, restores persisted state, and serves the ops
// endpoints until shutdown. It is the single wiring point for the process.
func Run(ctx context.Context, lg *zap.Logger, _ *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("data_dir", cfg.DataDir),
		zap.String("ops_addr", cfg.OpsAddr),
	)

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return errors.Wrap(err, "open store")
	}

	client := catalog.NewHTTPClient(catalog.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
	})

	sf := NewStorefront(fileStore, client, checkout.NewSimulator(cfg.Checkout.Delay), lg)
	sf.Restore()

	if snap := sf.Auth.Snapshot(); snap.IsAuthenticated {
		lg.Info("Session restored", zap.String("user_id", snap.User.ID))
	}
	if snap := sf.Cart.Snapshot(); len(snap.Items) > 0 {
		lg.Info("Cart restored",
			zap.Int("items", len(snap.Items)),
			zap.Int64("total_cents", snap.Total),
		)
	}

	// Health probes.
	healthSvc := health.New()
	healthSvc.AddLiveness("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadiness("store", 5*time.Second, health.PingCheck(fileStore))
	healthSvc.AddReadiness("catalog", 5*time.Second, health.HTTPCheck(
		&http.Client{Timeout: 5 * time.Second},
		cfg.Catalog.BaseURL+"/complexSearch",
	))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)
	defer healthSvc.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		Addr:              cfg.OpsAddr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Ops listener up", zap.String("addr", cfg.OpsAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "ops server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Ops server shutdown error", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}
