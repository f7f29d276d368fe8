package service

import (
	"context"
	"log/slog"
	"sync"

	"coinbar/internal/domain"
	"coinbar/internal/infra"
)

// Bootstrapper refreshes the full 24h snapshot for every catalog symbol.
// Per-symbol failures are logged and swallowed; they never abort the batch.
type Bootstrapper struct {
	source  domain.TickerSource
	store   *Store
	catalog *domain.Catalog
}

// NewBootstrapper creates a bootstrapper over the given ticker source
func NewBootstrapper(source domain.TickerSource, store *Store, catalog *domain.Catalog) *Bootstrapper {
	return &Bootstrapper{
		source:  source,
		store:   store,
		catalog: catalog,
	}
}

// FetchAll fans out one snapshot fetch per catalog symbol and returns after
// every fetch has finished. The catalog is small, so in-flight requests are
// not bounded.
func (b *Bootstrapper) FetchAll(ctx context.Context) {
	var wg sync.WaitGroup

	for _, sym := range b.catalog.Symbols() {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			snap, err := b.source.Ticker24h(ctx, symbol)
			if err != nil {
				slog.Warn("Snapshot fetch failed",
					slog.String("symbol", symbol),
					slog.Any("error", err),
				)
				infra.GlobalMetrics.RecordFetchError()
				return
			}

			b.store.SetPriceAndChange(symbol, snap.LastPrice, snap.ChangePercent)
		}(sym)
	}

	wg.Wait()
}
