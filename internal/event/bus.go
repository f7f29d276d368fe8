package event

// Kind enumerates feed notifications delivered to the presentation layer
type Kind int

const (
	// KindPricesChanged signals that a symbol's price or 24h change was updated
	KindPricesChanged Kind = iota
	// KindStateChanged signals that a symbol's connection state was updated
	KindStateChanged
	// KindAlertTriggered signals that a price alert fired
	KindAlertTriggered
)

// String returns the notification kind name
func (k Kind) String() string {
	switch k {
	case KindPricesChanged:
		return "prices_changed"
	case KindStateChanged:
		return "state_changed"
	case KindAlertTriggered:
		return "alert_triggered"
	default:
		return "unknown"
	}
}

// Event is one best-effort notification to the presentation layer
type Event struct {
	Kind   Kind
	Symbol string
	Detail string // Extra context for alerts; empty otherwise
}

// Bus fans out feed events to a single subscriber channel.
// Delivery is best-effort: when the subscriber lags behind and the buffer
// fills up, events are dropped. The presentation layer re-renders from the
// store on receipt, so a dropped signal is absorbed by the next one.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish sends an event without blocking the caller
func (b *Bus) Publish(ev Event) {
	select {
	case b.ch <- ev:
	default:
		// Subscriber is behind; drop and let the next signal cover it
	}
}

// Events returns the subscriber channel
func (b *Bus) Events() <-chan Event {
	return b.ch
}
