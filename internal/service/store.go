package service

import (
	"sync"
	"time"

	"coinbar/internal/domain"
	"coinbar/internal/event"

	"github.com/shopspring/decimal"
)

// PriceHook is invoked after every price write, outside the store lock.
// Used by the feed manager to evaluate alerts.
type PriceHook func(symbol string, price decimal.Decimal)

// Store is the single source of truth for per-symbol feed state: last-known
// price record, connection state, and the ordered selection set.
// All operations are safe for concurrent callers; no I/O happens under lock.
type Store struct {
	mu        sync.RWMutex
	records   map[string]domain.PriceRecord
	states    map[string]domain.ConnectionState
	selection []string // Insertion order determines display order

	bus    *event.Bus
	hookMu sync.RWMutex
	hook   PriceHook
}

// NewStore creates an empty store publishing change signals to bus
func NewStore(bus *event.Bus) *Store {
	return &Store{
		records: make(map[string]domain.PriceRecord),
		states:  make(map[string]domain.ConnectionState),
		bus:     bus,
	}
}

// SetPriceHook registers the post-write hook. Must be called before the
// supervisor starts writing.
func (s *Store) SetPriceHook(hook PriceHook) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hook = hook
}

// SetPrice overwrites a symbol's price, keeping its last 24h change.
// Called from the streaming path; last write wins against bootstrap writes.
func (s *Store) SetPrice(symbol string, price decimal.Decimal) {
	s.mu.Lock()
	rec := s.records[symbol]
	rec.Symbol = symbol
	rec.Price = price
	rec.UpdatedAt = time.Now()
	s.records[symbol] = rec
	s.mu.Unlock()

	s.bus.Publish(event.Event{Kind: event.KindPricesChanged, Symbol: symbol})
	s.runHook(symbol, price)
}

// SetPriceAndChange overwrites a symbol's price and 24h change.
// Called from the REST bootstrap path.
func (s *Store) SetPriceAndChange(symbol string, price, change decimal.Decimal) {
	s.mu.Lock()
	rec := s.records[symbol]
	rec.Symbol = symbol
	rec.Price = price
	rec.Change = change
	rec.UpdatedAt = time.Now()
	s.records[symbol] = rec
	s.mu.Unlock()

	s.bus.Publish(event.Event{Kind: event.KindPricesChanged, Symbol: symbol})
	s.runHook(symbol, price)
}

// SetConnectionState overwrites a symbol's published connection state
func (s *Store) SetConnectionState(symbol string, state domain.ConnectionState) {
	s.mu.Lock()
	s.states[symbol] = state
	s.mu.Unlock()

	s.bus.Publish(event.Event{Kind: event.KindStateChanged, Symbol: symbol, Detail: state.Kind.String()})
}

// Snapshot returns a symbol's last-known record and connection state.
// The third return value is false when the symbol was never observed.
func (s *Store) Snapshot(symbol string) (domain.PriceRecord, domain.ConnectionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[symbol]
	state, hasState := s.states[symbol]
	if !hasState {
		state = domain.Disconnected
	}
	return rec, state, ok || hasState
}

// ConnectionState returns a symbol's connection state, Disconnected by default
func (s *Store) ConnectionState(symbol string) domain.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if state, ok := s.states[symbol]; ok {
		return state
	}
	return domain.Disconnected
}

// SelectedSymbols returns the selection in insertion order
func (s *Store) SelectedSymbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.selection...)
}

// SelectedRecords returns the last-known records of selected symbols in
// selection order, for the presentation layer.
func (s *Store) SelectedRecords() []domain.PriceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PriceRecord, 0, len(s.selection))
	for _, symbol := range s.selection {
		rec := s.records[symbol]
		rec.Symbol = symbol
		result = append(result, rec)
	}
	return result
}

// SetSelection replaces the selection, preserving the given order.
// Used once at startup from persisted state.
func (s *Store) SetSelection(symbols []string) {
	s.mu.Lock()
	s.selection = append([]string(nil), symbols...)
	s.mu.Unlock()
}

// Toggle flips a symbol's selection membership and reports the new state.
// Newly selected symbols append at the end (insertion order).
func (s *Store) Toggle(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sel := range s.selection {
		if sel == symbol {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			return false
		}
	}
	s.selection = append(s.selection, symbol)
	return true
}

// IsSelected reports whether a symbol is currently selected
func (s *Store) IsSelected(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sel := range s.selection {
		if sel == symbol {
			return true
		}
	}
	return false
}

func (s *Store) runHook(symbol string, price decimal.Decimal) {
	s.hookMu.RLock()
	hook := s.hook
	s.hookMu.RUnlock()

	if hook != nil {
		hook(symbol, price)
	}
}
