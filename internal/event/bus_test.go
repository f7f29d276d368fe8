package event

import "testing"

func TestBus_PublishAndReceive(t *testing.T) {
	bus := NewBus(4)

	bus.Publish(Event{Kind: KindPricesChanged, Symbol: "btcusdt"})

	select {
	case ev := <-bus.Events():
		if ev.Kind != KindPricesChanged || ev.Symbol != "btcusdt" {
			t.Errorf("Unexpected event: %+v", ev)
		}
	default:
		t.Fatal("Expected a buffered event")
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus(2)

	// Fill the buffer and then some; Publish must never block
	for i := 0; i < 10; i++ {
		bus.Publish(Event{Kind: KindStateChanged, Symbol: "ethusdt"})
	}

	if len(bus.Events()) != 2 {
		t.Errorf("Expected 2 buffered events, got %d", len(bus.Events()))
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPricesChanged, "prices_changed"},
		{KindStateChanged, "state_changed"},
		{KindAlertTriggered, "alert_triggered"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
