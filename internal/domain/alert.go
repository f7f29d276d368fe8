package domain

import "github.com/shopspring/decimal"

// Alert represents a price alert configuration
type Alert struct {
	Symbol     string          `json:"symbol"`
	Target     decimal.Decimal `json:"target"`
	Direction  string          `json:"direction"` // "UP" or "DOWN"
	Persistent bool            `json:"persistent"`
	Active     bool            `json:"active"`
}

// NewAlert creates a new alert configuration.
// Direction is automatically determined based on currentPrice:
// - UP: target > currentPrice (waiting for price to rise)
// - DOWN: target < currentPrice (waiting for price to fall)
func NewAlert(symbol string, target, currentPrice decimal.Decimal, persistent bool) *Alert {
	direction := "UP"
	if target.LessThan(currentPrice) {
		direction = "DOWN"
	}
	return &Alert{
		Symbol:     symbol,
		Target:     target,
		Direction:  direction,
		Persistent: persistent,
		Active:     true,
	}
}

// Check reports whether the alert condition is met.
// Returns true when:
// - Direction is UP and price >= target
// - Direction is DOWN and price <= target
func (a *Alert) Check(price decimal.Decimal) bool {
	if !a.Active {
		return false
	}
	if a.Direction == "UP" {
		return price.GreaterThanOrEqual(a.Target)
	}
	return price.LessThanOrEqual(a.Target)
}
