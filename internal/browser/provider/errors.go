package provider

import (
	"errors"
	"fmt"
)

// ErrMissingEndpoint is returned by New when no WebSocket endpoint was
// configured. Raised before any network activity.
var ErrMissingEndpoint = errors.New("browser WebSocket endpoint is required")

// SchemeError reports an endpoint that does not use a ws:// or wss:// scheme.
// Raised by Start before any connection attempt.
type SchemeError struct {
	Endpoint string
}

func (e *SchemeError) Error() string {
	return fmt.Sprintf("invalid CDP endpoint %q: scheme must be ws:// or wss://", e.Endpoint)
}

// ConnectError reports a failed connection attempt. The underlying cause is
// preserved for errors.Is/errors.As inspection rather than flattened into the
// message alone.
type ConnectError struct {
	Endpoint string
	Cause    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to CDP endpoint %s: %v", e.Endpoint, e.Cause)
}

func (e *ConnectError) Unwrap() error {
	return e.Cause
}
