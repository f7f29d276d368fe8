package domain

// StateKind identifies a phase of a symbol's stream lifecycle
type StateKind int

const (
	StateDisconnected StateKind = iota
	StateConnecting
	StateConnected
	StateError
)

// String returns the lifecycle phase name
func (k StateKind) String() string {
	switch k {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ConnectionState is the published lifecycle state of one symbol's stream.
// Reason is only meaningful when Kind is StateError.
type ConnectionState struct {
	Kind   StateKind `json:"kind"`
	Reason string    `json:"reason,omitempty"`
}

var (
	Disconnected = ConnectionState{Kind: StateDisconnected}
	Connecting   = ConnectionState{Kind: StateConnecting}
	Connected    = ConnectionState{Kind: StateConnected}
)

// ErrorState builds an error-state value carrying the failure reason
func ErrorState(reason string) ConnectionState {
	return ConnectionState{Kind: StateError, Reason: reason}
}

// IsLive reports whether a connection attempt is in flight or established
func (s ConnectionState) IsLive() bool {
	return s.Kind == StateConnecting || s.Kind == StateConnected
}
