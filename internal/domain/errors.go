package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a transport-level error that may be retriable
type NetworkError struct {
	Op        string // Operation that failed (e.g., "dial", "read", "fetch")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a retriable network error (transport failure)
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error (e.g., a
// malformed endpoint that will never succeed)
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable).
// Startup aborts on any ConfigError.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrMalformedPayload is returned when a REST response or stream frame
	// cannot be parsed or misses a required field. The payload is dropped;
	// nothing is retried.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnknownSymbol is returned when a symbol is not in the catalog. Not retriable.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrStreamClosed is returned when reading from a stream whose
	// connection has been closed.
	ErrStreamClosed = errors.New("stream closed")
)
