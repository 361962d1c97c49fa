package toolwire

import "github.com/toolwire/toolwire/internal/errors"

// Re-export error types from the internal package.

// ValidationError reports the first field that failed input validation.
type ValidationError = errors.ValidationError

// Re-export sentinel errors from the internal package.
var (
	// ErrServerClosed indicates the server has been closed and cannot be
	// reused.
	ErrServerClosed = errors.ErrRouterClosed

	// ErrAlreadyConnected indicates a transport is already attached.
	ErrAlreadyConnected = errors.ErrAlreadyConnected

	// ErrNilTransport indicates a nil transport was passed to Connect.
	ErrNilTransport = errors.ErrNilTransport

	// ErrResourceNotFound indicates no resource matches the requested URI.
	ErrResourceNotFound = errors.ErrResourceNotFound

	// ErrTransportStarted indicates the transport was started twice.
	ErrTransportStarted = errors.ErrTransportStarted

	// ErrTransportClosed indicates the transport has been stopped.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrInvalidTransport indicates an unknown transport name in the
	// configuration.
	ErrInvalidTransport = errors.ErrInvalidTransport

	// ErrInvalidPort indicates a listen port outside 1-65535.
	ErrInvalidPort = errors.ErrInvalidPort
)
