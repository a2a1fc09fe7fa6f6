package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var _ Client = (*HTTPClient)(nil)

// ClientConfig configures the provider HTTP client.
type ClientConfig struct {
	// BaseURL is the provider API root, e.g. https://api.spoonacular.com/recipes.
	BaseURL string
	// APIKey is sent with every request.
	APIKey string
	// Timeout bounds a single provider call.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls to stay inside the provider
	// quota. Zero disables throttling.
	RequestsPerSecond float64
}

// HTTPClient implements Client against the provider's complexSearch endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewHTTPClient builds a provider client with an instrumented transport and
// an outbound rate limiter.
func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: limiter,
	}
}

// GetAll fetches one unfiltered catalog page.
func (c *HTTPClient) GetAll(ctx context.Context, page, limit int) (*Page, error) {
	params := c.baseParams(page, limit)
	return c.complexSearch(ctx, params)
}

// Search fetches one page matching the query, scoped to the given fields.
func (c *HTTPClient) Search(ctx context.Context, p SearchParams) (*Page, error) {
	params := c.baseParams(p.Page, p.Limit)
	params.Set("query", p.Query)
	if slices.Contains(p.Fields, "title") {
		params.Set("titleMatch", p.Query)
	}
	if slices.Contains(p.Fields, "diets") {
		params.Set("diet", p.Query)
	}
	return c.complexSearch(ctx, params)
}

func (c *HTTPClient) baseParams(page, limit int) url.Values {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 9
	}
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("offset", strconv.Itoa((page-1)*limit))
	params.Set("number", strconv.Itoa(limit))
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")
	return params
}

func (c *HTTPClient) complexSearch(ctx context.Context, params url.Values) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait")
	}

	u := c.baseURL + "/complexSearch?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zctx.From(ctx).Warn("Catalog provider error",
			zap.Int("status", resp.StatusCode),
		)
		return nil, errors.Errorf("catalog provider: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	page, err := decodePage(body)
	if err != nil {
		return nil, err
	}
	return page, nil
}
