package health

import (
	"context"
	"net/http"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck reports unhealthy when the goroutine count exceeds the
// threshold. Useful as a liveness probe for leak detection.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// Pinger is anything with a Ping method, e.g. the file store.
type Pinger interface {
	Ping() error
}

// PingCheck adapts a Pinger into a readiness probe.
func PingCheck(p Pinger) CheckFunc {
	return func(_ context.Context) error {
		return p.Ping()
	}
}

// HTTPCheck reports unhealthy when a GET to url fails or returns a 5xx.
// Used as a readiness probe against the catalog provider.
func HTTPCheck(client *http.Client, url string) CheckFunc {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "build request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "request")
		}
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			return errors.Errorf("status %d", resp.StatusCode)
		}
		return nil
	}
}
