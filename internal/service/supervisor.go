package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"coinbar/internal/domain"
	"coinbar/internal/infra"
)

// Supervisor owns one streaming subscription per selected symbol and keeps
// the set of open connections reconciled with the selection set.
//
// Per symbol it drives the lifecycle Disconnected -> Connecting -> Connected,
// entering Error on transport failure and retrying indefinitely at a fixed
// delay while the symbol stays selected. A symbol's failure never affects
// other symbols.
type Supervisor struct {
	store          *Store
	dialer         domain.StreamDialer
	reconnectDelay time.Duration

	mu     sync.Mutex
	subs   map[string]*subscription
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// subscription is the live handle for one open stream. At most one exists
// per symbol; the supervisor exclusively creates and destroys them.
type subscription struct {
	symbol string
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	stream domain.TradeStream
}

func (sub *subscription) setStream(stream domain.TradeStream) {
	sub.mu.Lock()
	sub.stream = stream
	sub.mu.Unlock()
}

// closeStream closes the live connection so a blocked read unblocks
func (sub *subscription) closeStream() {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.stream != nil {
		sub.stream.Close()
		sub.stream = nil
	}
}

// NewSupervisor creates a supervisor over the given dialer
func NewSupervisor(store *Store, dialer domain.StreamDialer, reconnectDelay time.Duration) *Supervisor {
	return &Supervisor{
		store:          store,
		dialer:         dialer,
		reconnectDelay: reconnectDelay,
		subs:           make(map[string]*subscription),
	}
}

// Start begins supervision and opens streams for the current selection
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.Reconcile()
}

// Reconcile closes streams for deselected symbols, then opens streams for
// newly selected ones. Close-before-open keeps the operation idempotent and
// rules out transient duplicate connections for a symbol. Symbols already
// open and still selected are left untouched.
func (s *Supervisor) Reconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil || s.ctx.Err() != nil {
		return
	}

	selected := make(map[string]bool)
	for _, symbol := range s.store.SelectedSymbols() {
		selected[symbol] = true
	}

	// Phase 1: close
	for symbol, sub := range s.subs {
		if !selected[symbol] {
			s.closeLocked(sub)
		}
	}

	// Phase 2: open
	for _, symbol := range s.store.SelectedSymbols() {
		if _, open := s.subs[symbol]; !open {
			s.openLocked(symbol)
		}
	}

	infra.GlobalMetrics.SetOpenStreams(int32(len(s.subs)))
}

// OpenSymbols returns the symbols with a live subscription handle
func (s *Supervisor) OpenSymbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := make([]string, 0, len(s.subs))
	for symbol := range s.subs {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// Stop cancels every open connection and pending reconnect, then waits for
// all subscription goroutines to drain.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return
	}
	s.cancel()
	for _, sub := range s.subs {
		sub.closeStream()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	for symbol := range s.subs {
		delete(s.subs, symbol)
		s.store.SetConnectionState(symbol, domain.Disconnected)
	}
	s.mu.Unlock()

	infra.GlobalMetrics.SetOpenStreams(0)
}

// openLocked creates the subscription handle and starts its goroutine.
// Caller holds s.mu.
func (s *Supervisor) openLocked(symbol string) {
	subCtx, cancel := context.WithCancel(s.ctx)
	sub := &subscription{
		symbol: symbol,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.subs[symbol] = sub

	s.wg.Add(1)
	go s.run(subCtx, sub)
}

// closeLocked cancels a subscription, waits until its goroutine has fully
// exited, and only then removes the handle. This ordering upholds the
// at-most-one-live-connection-per-symbol invariant. Caller holds s.mu.
func (s *Supervisor) closeLocked(sub *subscription) {
	sub.cancel()
	sub.closeStream()
	<-sub.done

	delete(s.subs, sub.symbol)
	s.store.SetConnectionState(sub.symbol, domain.Disconnected)
}

// run is the connection loop for one symbol: dial, consume, and on failure
// wait out the reconnect delay before trying again. Exits only on
// cancellation (deselect or shutdown) or a non-retriable dial error.
func (s *Supervisor) run(ctx context.Context, sub *subscription) {
	defer s.wg.Done()
	defer close(sub.done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Stream loop panic recovered", slog.String("symbol", sub.symbol), slog.Any("panic", r))
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		s.store.SetConnectionState(sub.symbol, domain.Connecting)

		stream, err := s.dialer.Dial(ctx, sub.symbol)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.store.SetConnectionState(sub.symbol, domain.ErrorState(err.Error()))
			if !domain.IsRetriable(err) {
				// A broken endpoint will never succeed; give up on this
				// symbol until it is toggled again
				slog.Error("Stream endpoint unusable",
					slog.String("symbol", sub.symbol),
					slog.Any("error", err),
				)
				return
			}
			slog.Warn("Stream dial failed",
				slog.String("symbol", sub.symbol),
				slog.Any("error", err),
			)
			if !s.waitReconnect(ctx) {
				return
			}
			continue
		}

		sub.setStream(stream)
		if ctx.Err() != nil {
			stream.Close()
			return
		}

		err = s.consume(ctx, sub.symbol, stream)
		stream.Close()
		sub.setStream(nil)

		if ctx.Err() != nil {
			return
		}

		s.store.SetConnectionState(sub.symbol, domain.ErrorState(err.Error()))
		slog.Warn("Stream disconnected",
			slog.String("symbol", sub.symbol),
			slog.Any("error", err),
		)
		if !s.waitReconnect(ctx) {
			return
		}
	}
}

// waitReconnect sleeps for the fixed reconnect delay.
// Returns false when cancelled while waiting.
func (s *Supervisor) waitReconnect(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.reconnectDelay):
		infra.GlobalMetrics.RecordReconnect()
		return true
	}
}

// consume reads frames until the stream fails. The first frame promotes the
// symbol to Connected; frames arriving after a deselect are dropped.
func (s *Supervisor) consume(ctx context.Context, symbol string, stream domain.TradeStream) error {
	connected := false
	for {
		price, err := stream.ReadPrice(ctx)
		if err != nil {
			return err
		}

		// A deselect may race an already-buffered frame; drop it
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !s.store.IsSelected(symbol) {
			infra.GlobalMetrics.RecordFrameDropped()
			continue
		}

		if !connected {
			s.store.SetConnectionState(symbol, domain.Connected)
			connected = true
		}
		s.store.SetPrice(symbol, price)
	}
}
