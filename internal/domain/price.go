package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord holds the last-known market data for a single symbol.
// Price comes from either the REST snapshot or the trade stream,
// Change only from the REST snapshot (the trade stream carries price only).
type PriceRecord struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Change    decimal.Decimal `json:"change"` // 24h change (%)
	UpdatedAt time.Time       `json:"updated_at"`
}

// ChangeDirection returns "positive", "negative", or "neutral"
func (r PriceRecord) ChangeDirection() string {
	if r.Change.IsPositive() {
		return "positive"
	}
	if r.Change.IsNegative() {
		return "negative"
	}
	return "neutral"
}

// TickerSnapshot is one symbol's 24h REST snapshot at the domain boundary
type TickerSnapshot struct {
	Symbol        string
	LastPrice     decimal.Decimal
	ChangePercent decimal.Decimal
}
