package toolwire

import (
	"context"

	"github.com/toolwire/toolwire/internal/router"
	"github.com/toolwire/toolwire/internal/wire"
)

type (
	// Request is a single inbound envelope.
	Request = wire.Request

	// Response is the single reply to a Request.
	Response = wire.Response

	// Error is the structured error carried by a failed Response.
	Error = wire.Error

	// Notification is an outbound envelope with no correlation id.
	Notification = wire.Notification

	// Handler responds to decoded request envelopes. The Server is a
	// Handler; custom transports dispatch through it.
	Handler = wire.Handler

	// ChangeParams is the params payload of an operations/list_changed
	// notification. Timestamp is wall-clock milliseconds.
	ChangeParams = router.ChangeParams
)

// Params and result payload shapes, as carried inside envelopes. Useful
// when calling Server.Handle directly.
type (
	// CallParams is the params object of operations/call.
	CallParams = router.CallParams

	// ReadParams is the params object of resources/read.
	ReadParams = router.ReadParams

	// OperationInfo describes one operation in a ListOperationsResult.
	OperationInfo = router.OperationInfo

	// ListOperationsResult is the result payload of operations/list.
	ListOperationsResult = router.ListOperationsResult

	// TextContent is one textual content block in a call result.
	TextContent = router.TextContent

	// CallResult is the result payload of operations/call.
	CallResult = router.CallResult

	// ResourceInfo describes one catalog entry in a ListResourcesResult.
	ResourceInfo = router.ResourceInfo

	// ListResourcesResult is the result payload of resources/list.
	ListResourcesResult = router.ListResourcesResult

	// ResourceContents is one resolved document in a ReadResourceResult.
	ResourceContents = router.ResourceContents

	// ReadResourceResult is the result payload of resources/read.
	ReadResourceResult = router.ReadResourceResult
)

// Method names served by the protocol.
const (
	MethodListOperations = wire.MethodListOperations
	MethodCallOperation  = wire.MethodCallOperation
	MethodListResources  = wire.MethodListResources
	MethodReadResource   = wire.MethodReadResource
	MethodListChanged    = wire.MethodListChanged
)

// Error codes carried by failed responses.
const (
	CodeParseError        = wire.CodeParseError
	CodeInvalidRequest    = wire.CodeInvalidRequest
	CodeMethodNotFound    = wire.CodeMethodNotFound
	CodeInvalidParams     = wire.CodeInvalidParams
	CodeInternalError     = wire.CodeInternalError
	CodeUnavailable       = wire.CodeUnavailable
	CodeOperationNotFound = wire.CodeOperationNotFound
	CodeExecutionFailed   = wire.CodeExecutionFailed
	CodeResourceNotFound  = wire.CodeResourceNotFound
)

// Sink receives out-of-band notification envelopes. Every Transport is a
// Sink; Serve attaches its transport automatically, while embedders can
// hand their own Sink to Server.Connect.
type Sink interface {
	// SendNotification delivers one notification envelope to the client.
	SendNotification(n *Notification) error
}

// Transport carries envelopes between the server and its client. Start
// returns once the transport is accepting traffic; Done is closed when it
// finishes on its own, with Err reporting the cause. SendNotification
// pushes an out-of-band envelope to the client, best effort.
//
// Implementations for the pipe and streaming HTTP transports are built in;
// Serve accepts any other implementation of this contract.
type Transport interface {
	Start(ctx context.Context, h Handler) error
	Stop() error
	Done() <-chan struct{}
	Err() error
	SendNotification(n *Notification) error
}
