package errors

import (
	"errors"
)

// Compile-time verification that structured error types implement error.
var (
	_ error = (*ValidationError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrRouterClosed indicates the router has been closed and cannot be reused.
	ErrRouterClosed = errors.New("router closed: routers are single-session, create a new server")

	// ErrAlreadyConnected indicates the router already has a transport attached.
	ErrAlreadyConnected = errors.New("router already connected to a transport")

	// ErrNilTransport indicates a nil transport was passed to Connect.
	ErrNilTransport = errors.New("nil transport")

	// ErrResourceNotFound indicates the requested URI is not in the catalog.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrTransportStarted indicates Start was called on a running transport.
	ErrTransportStarted = errors.New("transport already started")

	// ErrTransportClosed indicates the transport has stopped and can no longer
	// carry envelopes.
	ErrTransportClosed = errors.New("transport closed")

	// ErrInvalidTransport indicates an unrecognized transport name in the
	// runtime configuration.
	ErrInvalidTransport = errors.New("invalid transport")

	// ErrInvalidPort indicates a port outside the 1-65535 range.
	ErrInvalidPort = errors.New("invalid port")
)

// ValidationError reports the first input constraint violated during shape
// validation. Message is the complete human-readable description, already
// qualified with the field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
