package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete storefront configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	// DataDir is where the local key-value store keeps its files.
	DataDir  string `default:"data" usage:"Directory for the local persistent store" flag:"data-dir"`
	OpsAddr  string `default:"0.0.0.0:8081" usage:"Ops listener address (/livez, /readyz)" flag:"ops-addr"`
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Graceful GracefulConfig
}

// CatalogConfig configures the external recipe catalog provider.
type CatalogConfig struct {
	BaseURL           string        `default:"https://api.spoonacular.com/recipes" usage:"Catalog provider base URL" flag:"catalog-base-url"`
	APIKey            string        `usage:"Catalog provider API key (STOREFRONT_CATALOG_APIKEY)" flag:"catalog-api-key"`
	Timeout           time.Duration `default:"10s" usage:"Per-request catalog timeout"`
	RequestsPerSecond float64       `default:"1" usage:"Outbound catalog rate limit" flag:"catalog-rps"`
}

// CheckoutConfig configures the simulated payment submission.
type CheckoutConfig struct {
	Delay time.Duration `default:"1500ms" usage:"Simulated checkout processing delay"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Catalog.APIKey == "" {
		return nil, errors.New("catalog API key is required: set STOREFRONT_CATALOG_APIKEY")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) to the STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.OpsAddr == "0.0.0.0:8081" {
		c.OpsAddr = "0.0.0.0:" + port
	}
}
