package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrInvalidConfig is matched by every *ConfigError
var ErrInvalidConfig = errors.New("invalid transport configuration")

// ConfigError reports a Config that cannot produce a working Client. It is
// returned by New and is never retried.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %q %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidConfig
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NetworkError is returned when a call ends without any usable response:
// every attempt failed at the network level, the context was cancelled, or
// the circuit breaker rejected the call.
type NetworkError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response after %d attempt(s): %v", e.Method, e.URL, e.Attempts, e.Err)
}

// Unwrap returns the cause of the last failed attempt
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the last attempt timed out
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
