package infra

import (
	"fmt"
	"os"
	"time"

	"coinbar/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds the full application configuration, loaded from YAML and
// overridable through environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Binance struct {
			RestURL string `yaml:"rest_url"` // e.g. https://api.binance.com
			WSURL   string `yaml:"ws_url"`   // e.g. wss://stream.binance.com:9443
		} `yaml:"binance"`
	} `yaml:"api"`

	Feed struct {
		RefreshIntervalSec int    `yaml:"refresh_interval_sec"` // Periodic full-snapshot backstop
		ReconnectDelaySec  int    `yaml:"reconnect_delay_sec"`  // Fixed delay before stream reconnect
		DefaultSymbol      string `yaml:"default_symbol"`       // Selection on first run
	} `yaml:"feed"`

	Catalog []domain.Currency `yaml:"catalog"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
// Environment variables override file values; validation failures are fatal.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &domain.ConfigError{Field: path, Err: err}
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.API.Binance.RestURL == "" || (!hasPrefix(c.API.Binance.RestURL, "http://") && !hasPrefix(c.API.Binance.RestURL, "https://")) {
		return &domain.ConfigError{Field: "api.binance.rest_url", Err: fmt.Errorf("invalid REST URL: %q", c.API.Binance.RestURL)}
	}
	if c.API.Binance.WSURL == "" || (!hasPrefix(c.API.Binance.WSURL, "ws://") && !hasPrefix(c.API.Binance.WSURL, "wss://")) {
		return &domain.ConfigError{Field: "api.binance.ws_url", Err: fmt.Errorf("invalid WS URL: %q", c.API.Binance.WSURL)}
	}
	if c.Feed.RefreshIntervalSec <= 0 {
		return &domain.ConfigError{Field: "feed.refresh_interval_sec", Err: fmt.Errorf("must be positive, got %d", c.Feed.RefreshIntervalSec)}
	}
	if c.Feed.ReconnectDelaySec <= 0 {
		return &domain.ConfigError{Field: "feed.reconnect_delay_sec", Err: fmt.Errorf("must be positive, got %d", c.Feed.ReconnectDelaySec)}
	}

	catalog, err := domain.NewCatalog(c.Catalog)
	if err != nil {
		return err
	}
	if c.Feed.DefaultSymbol == "" || !catalog.Has(c.Feed.DefaultSymbol) {
		return &domain.ConfigError{Field: "feed.default_symbol", Err: fmt.Errorf("%q is not in the catalog", c.Feed.DefaultSymbol)}
	}

	return nil
}

// NewCatalog builds the validated currency catalog from the config
func (c *Config) NewCatalog() (*domain.Catalog, error) {
	return domain.NewCatalog(c.Catalog)
}

// RefreshInterval returns the periodic bootstrap interval
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Feed.RefreshIntervalSec) * time.Second
}

// ReconnectDelay returns the fixed delay between stream reconnect attempts
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Feed.ReconnectDelaySec) * time.Second
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment overrides when present
func overrideWithEnv(cfg *Config) {
	if u := os.Getenv("COINBAR_BINANCE_REST_URL"); u != "" {
		cfg.API.Binance.RestURL = u
	}
	if u := os.Getenv("COINBAR_BINANCE_WS_URL"); u != "" {
		cfg.API.Binance.WSURL = u
	}
	if lvl := os.Getenv("COINBAR_LOG_LEVEL"); lvl != "" {
		cfg.Logging.Level = lvl
	}
}
