package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Currency represents one entry of the fixed coin catalog
type Currency struct {
	Code   string `yaml:"code" json:"code"`     // Unified code (e.g., "BTC")
	Name   string `yaml:"name" json:"name"`     // Display name (e.g., "Bitcoin")
	Symbol string `yaml:"symbol" json:"symbol"` // Provider trading pair, lowercase (e.g., "btcusdt")
	Glyph  string `yaml:"glyph" json:"glyph"`   // Short status-bar glyph (e.g., "₿")
}

// Catalog is the ordered, immutable list of supported currencies.
// Loaded once at startup; order determines default display order.
type Catalog struct {
	entries  []Currency
	bySymbol map[string]Currency
}

// NewCatalog validates entries and builds the symbol index
func NewCatalog(entries []Currency) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Field: "catalog", Err: errors.New("at least one currency is required")}
	}

	bySymbol := make(map[string]Currency, len(entries))
	for i, cur := range entries {
		if cur.Code == "" {
			return nil, &ConfigError{Field: "catalog", Err: fmt.Errorf("entry %d: code is empty", i)}
		}
		if cur.Symbol == "" {
			return nil, &ConfigError{Field: "catalog", Err: fmt.Errorf("entry %d (%s): symbol is empty", i, cur.Code)}
		}
		if cur.Symbol != strings.ToLower(cur.Symbol) {
			return nil, &ConfigError{Field: "catalog", Err: fmt.Errorf("symbol %q must be lowercase", cur.Symbol)}
		}
		if _, dup := bySymbol[cur.Symbol]; dup {
			return nil, &ConfigError{Field: "catalog", Err: fmt.Errorf("duplicate symbol %q", cur.Symbol)}
		}
		bySymbol[cur.Symbol] = cur
	}

	return &Catalog{
		entries:  append([]Currency(nil), entries...),
		bySymbol: bySymbol,
	}, nil
}

// Entries returns the catalog in declaration order
func (c *Catalog) Entries() []Currency {
	return append([]Currency(nil), c.entries...)
}

// Symbols returns all trading-pair symbols in declaration order
func (c *Catalog) Symbols() []string {
	symbols := make([]string, len(c.entries))
	for i, cur := range c.entries {
		symbols[i] = cur.Symbol
	}
	return symbols
}

// BySymbol looks up a currency by its trading-pair symbol
func (c *Catalog) BySymbol(symbol string) (Currency, bool) {
	cur, ok := c.bySymbol[symbol]
	return cur, ok
}

// Has reports whether the symbol belongs to the catalog
func (c *Catalog) Has(symbol string) bool {
	_, ok := c.bySymbol[symbol]
	return ok
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.entries)
}
