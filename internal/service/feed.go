package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"coinbar/internal/domain"
	"coinbar/internal/event"
	"coinbar/internal/infra"

	"github.com/shopspring/decimal"
)

// Manager composes the feed core behind the operations the presentation
// layer calls: Start, ToggleSelection, RefreshAll, alert management, and
// Shutdown.
type Manager struct {
	catalog       *domain.Catalog
	store         *Store
	bootstrapper  *Bootstrapper
	supervisor    *Supervisor
	selection     domain.SelectionStore
	alertStore    domain.AlertStore
	bus           *event.Bus
	refreshEvery  time.Duration
	defaultSymbol string

	alertMu sync.Mutex
	alerts  []*domain.Alert

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ManagerDeps bundles the collaborators the feed manager composes
type ManagerDeps struct {
	Catalog       *domain.Catalog
	Store         *Store
	Bootstrapper  *Bootstrapper
	Supervisor    *Supervisor
	Selection     domain.SelectionStore
	Alerts        domain.AlertStore
	Bus           *event.Bus
	RefreshEvery  time.Duration
	DefaultSymbol string
}

// NewManager creates the feed manager facade
func NewManager(deps ManagerDeps) *Manager {
	return &Manager{
		catalog:       deps.Catalog,
		store:         deps.Store,
		bootstrapper:  deps.Bootstrapper,
		supervisor:    deps.Supervisor,
		selection:     deps.Selection,
		alertStore:    deps.Alerts,
		bus:           deps.Bus,
		refreshEvery:  deps.RefreshEvery,
		defaultSymbol: deps.DefaultSymbol,
	}
}

// Start loads the persisted selection (falling back to the default symbol),
// runs one full bootstrap, starts the stream supervisor for the loaded
// selection, and arms the periodic freshness backstop.
func (m *Manager) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	selection, err := m.selection.LoadSelection()
	if err != nil {
		slog.Warn("Failed to load selection, using default", slog.Any("error", err))
		selection = nil
	}

	// Every selected symbol must correspond to a known catalog currency;
	// symbols of a stale catalog are dropped on load
	valid := selection[:0:0]
	for _, symbol := range selection {
		if m.catalog.Has(symbol) {
			valid = append(valid, symbol)
		} else {
			slog.Warn("Dropping persisted symbol not in catalog", slog.String("symbol", symbol))
		}
	}
	if len(valid) == 0 {
		valid = []string{m.defaultSymbol}
	}
	m.store.SetSelection(valid)

	m.loadAlerts()
	m.store.SetPriceHook(m.checkAlerts)

	m.bootstrapper.FetchAll(ctx)
	m.supervisor.Start(ctx)

	m.wg.Add(1)
	go m.refreshLoop(ctx)

	slog.Info("Feed manager started",
		slog.Int("selected", len(valid)),
		slog.Duration("refresh_every", m.refreshEvery),
	)
	return nil
}

// ToggleSelection flips a symbol's membership, persists the new selection,
// and reconciles the open streams. Store state and persisted storage are
// consistent when this returns; the network effects of reconciliation
// settle asynchronously.
func (m *Manager) ToggleSelection(symbol string) error {
	if !m.catalog.Has(symbol) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}

	nowSelected := m.store.Toggle(symbol)

	err := m.selection.SaveSelection(m.store.SelectedSymbols())
	if err != nil {
		slog.Error("Failed to persist selection", slog.Any("error", err))
	}

	m.supervisor.Reconcile()

	slog.Info("Selection toggled",
		slog.String("symbol", symbol),
		slog.Bool("selected", nowSelected),
	)
	return err
}

// RefreshAll re-runs the full bootstrap on demand (e.g. on a UI open event)
func (m *Manager) RefreshAll(ctx context.Context) {
	m.bootstrapper.FetchAll(ctx)
}

// Shutdown closes every open connection and stops the periodic timers
func (m *Manager) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.supervisor.Stop()
	m.wg.Wait()
	slog.Info("Feed manager stopped")
}

// refreshLoop periodically re-runs the full bootstrap as a staleness
// backstop for symbols whose stream is down.
func (m *Manager) refreshLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.bootstrapper.FetchAll(ctx)
		}
	}
}

// ======================================================================================
// Alerts
// ======================================================================================

// AddAlert registers a price alert for a catalog symbol. Direction is
// derived from the symbol's current price.
func (m *Manager) AddAlert(symbol string, target decimal.Decimal, persistent bool) (*domain.Alert, error) {
	if !m.catalog.Has(symbol) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}

	rec, _, _ := m.store.Snapshot(symbol)
	alert := domain.NewAlert(symbol, target, rec.Price, persistent)

	m.alertMu.Lock()
	m.alerts = append(m.alerts, alert)
	m.alertMu.Unlock()

	m.persistAlerts()
	return alert, nil
}

// Alerts returns a copy of the registered alerts
func (m *Manager) Alerts() []*domain.Alert {
	m.alertMu.Lock()
	defer m.alertMu.Unlock()
	return append([]*domain.Alert(nil), m.alerts...)
}

// RemoveAlerts drops every alert registered for a symbol
func (m *Manager) RemoveAlerts(symbol string) {
	m.alertMu.Lock()
	kept := m.alerts[:0]
	for _, alert := range m.alerts {
		if alert.Symbol != symbol {
			kept = append(kept, alert)
		}
	}
	m.alerts = kept
	m.alertMu.Unlock()

	m.persistAlerts()
}

// checkAlerts runs as the store's price hook, outside the store lock
func (m *Manager) checkAlerts(symbol string, price decimal.Decimal) {
	var fired []*domain.Alert

	m.alertMu.Lock()
	for _, alert := range m.alerts {
		if alert.Symbol != symbol || !alert.Check(price) {
			continue
		}
		if !alert.Persistent {
			alert.Active = false
		}
		fired = append(fired, alert)
	}
	m.alertMu.Unlock()

	for _, alert := range fired {
		infra.GlobalMetrics.RecordAlertFired()
		slog.Info("Price alert triggered",
			slog.String("symbol", symbol),
			slog.String("target", alert.Target.String()),
			slog.String("price", price.String()),
		)
		m.bus.Publish(event.Event{
			Kind:   event.KindAlertTriggered,
			Symbol: symbol,
			Detail: fmt.Sprintf("%s crossed %s (%s)", symbol, alert.Target.String(), alert.Direction),
		})
	}

	if len(fired) > 0 {
		m.persistAlerts()
	}
}

func (m *Manager) loadAlerts() {
	alerts, err := m.alertStore.LoadAlerts()
	if err != nil {
		slog.Warn("Failed to load alerts", slog.Any("error", err))
		return
	}
	m.alertMu.Lock()
	m.alerts = alerts
	m.alertMu.Unlock()
}

func (m *Manager) persistAlerts() {
	m.alertMu.Lock()
	snapshot := append([]*domain.Alert(nil), m.alerts...)
	m.alertMu.Unlock()

	if err := m.alertStore.SaveAlerts(snapshot); err != nil {
		slog.Error("Failed to persist alerts", slog.Any("error", err))
	}
}
