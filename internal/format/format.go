// Package format renders raw wire decimals into display strings.
// All functions are pure; unparseable input passes through unchanged.
package format

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Price renders a raw decimal string with thousands separators and a
// magnitude-dependent number of fraction digits. The raw string is
// returned unchanged when it is not a valid number.
func Price(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	f, _ := d.Float64()
	return humanize.CommafWithDigits(f, FractionDigits(f))
}

// Percent renders a raw decimal string as a signed percentage with two
// fraction digits. Non-negative values get an explicit leading "+".
// The raw string is returned unchanged when it is not a valid number.
func Percent(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	s := d.StringFixed(2)
	if !d.IsNegative() {
		s = "+" + s
	}
	return s + "%"
}

// FractionDigits maps a price magnitude to its display precision.
// The mapping is total and monotonic: larger magnitudes show fewer digits.
func FractionDigits(price float64) int {
	if price < 0 {
		price = -price
	}
	switch {
	case price >= 1000:
		return 0
	case price >= 100:
		return 1
	case price >= 10:
		return 2
	case price >= 1:
		return 3
	case price >= 0.1:
		return 4
	default:
		return 8
	}
}
