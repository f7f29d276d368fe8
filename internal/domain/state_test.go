package domain

import "testing"

func TestStateKind_String(t *testing.T) {
	tests := []struct {
		kind StateKind
		want string
	}{
		{StateDisconnected, "disconnected"},
		{StateConnecting, "connecting"},
		{StateConnected, "connected"},
		{StateError, "error"},
		{StateKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("StateKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorState(t *testing.T) {
	state := ErrorState("read timeout")
	if state.Kind != StateError {
		t.Errorf("Expected StateError, got %v", state.Kind)
	}
	if state.Reason != "read timeout" {
		t.Errorf("Expected reason preserved, got %q", state.Reason)
	}
	if state.IsLive() {
		t.Error("Error state should not be live")
	}
	if !Connecting.IsLive() || !Connected.IsLive() {
		t.Error("Connecting and Connected should be live")
	}
}
