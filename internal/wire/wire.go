package wire

import (
	"context"
	"encoding/json"
	"fmt"
)

// Method names served by the router.
const (
	// MethodListOperations returns a snapshot of all registered operations.
	MethodListOperations = "operations/list"

	// MethodCallOperation invokes a named operation with arguments.
	MethodCallOperation = "operations/call"

	// MethodListResources returns the resource catalog.
	MethodListResources = "resources/list"

	// MethodReadResource resolves one resource URI to its content.
	MethodReadResource = "resources/read"

	// MethodListChanged is the notification method emitted when the set of
	// registered operations changes.
	MethodListChanged = "operations/list_changed"
)

// Standard error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Server-defined error codes (-32000 to -32099 range).
const (
	// CodeUnavailable is returned for requests arriving after shutdown began.
	CodeUnavailable = -32000

	// CodeOperationNotFound is returned when no operation matches the
	// requested name.
	CodeOperationNotFound = -32001

	// CodeExecutionFailed is returned when an operation handler fails or
	// panics.
	CodeExecutionFailed = -32002

	// CodeResourceNotFound is returned when no resource matches the requested
	// URI.
	CodeResourceNotFound = -32003
)

// Request is a single inbound envelope. ID is the caller's correlation id
// (a JSON string or number), kept raw so it can be echoed back unchanged.
type Request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the single reply to a Request. Exactly one of Result or Error
// is set. A nil ID marshals as null, which is how parse failures (where no
// id could be recovered) are answered.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error is the structured error carried by a failed Response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("protocol error %d: %s", e.Code, e.Message)
}

// Notification is an outbound envelope with no correlation id and no reply.
type Notification struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Handler responds to decoded request envelopes. Every request produces
// exactly one response. Transports decode bytes into Requests, hand them
// to a Handler, and encode the Response they get back.
type Handler interface {
	Handle(ctx context.Context, req *Request) *Response
}

// NewResponse creates a success response carrying result.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{ID: id, Result: result}
}

// NewErrorResponse creates an error response with the given code and message.
// Data is optional structured detail and may be nil.
func NewErrorResponse(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{
		ID: id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// NewNotification creates a notification envelope for the given method.
func NewNotification(method string, params any) *Notification {
	return &Notification{Method: method, Params: params}
}

// ParseRequest decodes one request envelope from raw bytes. On failure it
// returns a ready-to-send error response instead: malformed JSON yields a
// parse error addressed to a null id, a missing method yields an invalid
// request error addressed to whatever id was recovered.
func ParseRequest(data []byte) (*Request, *Response) {
	var req Request

	if err := json.Unmarshal(data, &req); err != nil {
		return nil, NewErrorResponse(nil, CodeParseError, "Parse error", err.Error())
	}

	if req.Method == "" {
		return nil, NewErrorResponse(req.ID, CodeInvalidRequest, "Invalid request: missing method", nil)
	}

	return &req, nil
}
