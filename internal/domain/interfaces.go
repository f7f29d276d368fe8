package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// TradeStream is one open streaming subscription for a single symbol.
// ReadPrice blocks until the next well-formed trade frame arrives and
// returns its price; malformed frames are dropped internally.
type TradeStream interface {
	ReadPrice(ctx context.Context) (decimal.Decimal, error)
	Close() error
}

// StreamDialer opens trade streams, one per symbol
type StreamDialer interface {
	Dial(ctx context.Context, symbol string) (TradeStream, error)
}

// TickerSource fetches the 24h REST snapshot for one symbol
type TickerSource interface {
	Ticker24h(ctx context.Context, symbol string) (TickerSnapshot, error)
}

// SelectionStore persists the user's selected symbols across restarts
type SelectionStore interface {
	LoadSelection() ([]string, error)
	SaveSelection(symbols []string) error
}

// AlertStore persists price alert configurations across restarts
type AlertStore interface {
	LoadAlerts() ([]*Alert, error)
	SaveAlerts(alerts []*Alert) error
}
