package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coinbar/internal/domain"
)

const validYAML = `
app:
  name: coinbar
  version: "1.0.0"
api:
  binance:
    rest_url: https://api.binance.com
    ws_url: wss://stream.binance.com:9443
feed:
  refresh_interval_sec: 300
  reconnect_delay_sec: 5
  default_symbol: btcusdt
catalog:
  - code: BTC
    name: Bitcoin
    symbol: btcusdt
    glyph: "₿"
  - code: ETH
    name: Ethereum
    symbol: ethusdt
    glyph: "Ξ"
logging:
  level: info
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Binance.RestURL != "https://api.binance.com" {
		t.Errorf("Unexpected REST URL: %s", cfg.API.Binance.RestURL)
	}
	if len(cfg.Catalog) != 2 {
		t.Errorf("Expected 2 catalog entries, got %d", len(cfg.Catalog))
	}
	if cfg.ReconnectDelay().Seconds() != 5 {
		t.Errorf("Unexpected reconnect delay: %v", cfg.ReconnectDelay())
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("COINBAR_BINANCE_REST_URL", "http://localhost:9999")

	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.Binance.RestURL != "http://localhost:9999" {
		t.Errorf("Env override not applied: %s", cfg.API.Binance.RestURL)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad rest url", func(c *Config) { c.API.Binance.RestURL = "ftp://nope" }},
		{"bad ws url", func(c *Config) { c.API.Binance.WSURL = "http://nope" }},
		{"zero refresh interval", func(c *Config) { c.Feed.RefreshIntervalSec = 0 }},
		{"zero reconnect delay", func(c *Config) { c.Feed.ReconnectDelaySec = 0 }},
		{"empty catalog", func(c *Config) { c.Catalog = nil }},
		{"default symbol not in catalog", func(c *Config) { c.Feed.DefaultSymbol = "dogeusdt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, validYAML))
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			var cfgErr *domain.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected ConfigError, got %T", err)
			}
		})
	}
}
