package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/toolwire/toolwire/internal/catalog"
	twerrors "github.com/toolwire/toolwire/internal/errors"
	"github.com/toolwire/toolwire/internal/event"
	"github.com/toolwire/toolwire/internal/registry"
	"github.com/toolwire/toolwire/internal/wire"
)

// State is the lifecycle phase of a Router.
type State int

// Router lifecycle states. Transitions are one-way: Disconnected to
// Connected to Closed.
const (
	StateDisconnected State = iota
	StateConnected
	StateClosed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Sink is the transport-facing half of the notification path. Transports
// implement Sink to receive out-of-band notification envelopes.
type Sink interface {
	SendNotification(n *wire.Notification) error
}

// Compile-time verification that Router serves the transport contract.
var _ wire.Handler = (*Router)(nil)

// Router dispatches request envelopes against a registry and catalog, and
// forwards registry change records to the connected sink.
type Router struct {
	log      *slog.Logger
	bus      *event.Bus
	registry *registry.Registry
	catalog  *catalog.Catalog

	mu          sync.Mutex
	state       State
	sink        Sink
	unsubscribe func()
}

// New creates a disconnected Router over the given registry and catalog.
// The bus must be the one the registry publishes to.
func New(log *slog.Logger, bus *event.Bus, reg *registry.Registry, cat *catalog.Catalog) *Router {
	return &Router{
		log:      log.With("component", "router"),
		bus:      bus,
		registry: reg,
		catalog:  cat,
	}
}

// Connect attaches a notification sink and subscribes to the change-event
// bus. Returns ErrAlreadyConnected if a sink is attached and
// ErrRouterClosed after Close.
func (r *Router) Connect(sink Sink) error {
	if sink == nil {
		return twerrors.ErrNilTransport
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateClosed:
		return twerrors.ErrRouterClosed
	case StateConnected:
		return twerrors.ErrAlreadyConnected
	case StateDisconnected:
	}

	r.sink = sink
	r.state = StateConnected
	r.unsubscribe = r.bus.Subscribe(r.forward)

	r.log.Debug("transport connected")

	return nil
}

// Close detaches the sink, unsubscribes from the bus, and moves the Router
// to its terminal state. Closing a closed Router is a no-op.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateClosed {
		return nil
	}

	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}

	r.sink = nil
	r.state = StateClosed

	r.log.Debug("router closed")

	return nil
}

// State reports the current lifecycle phase.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Handle dispatches one decoded request and always produces a response.
// Safe for concurrent use.
func (r *Router) Handle(ctx context.Context, req *wire.Request) *wire.Response {
	if r.State() == StateClosed {
		return wire.NewErrorResponse(req.ID, wire.CodeUnavailable, "Server is closed", nil)
	}

	switch req.Method {
	case wire.MethodListOperations:
		return r.listOperations(req)
	case wire.MethodCallOperation:
		return r.callOperation(ctx, req)
	case wire.MethodListResources:
		return r.listResources(req)
	case wire.MethodReadResource:
		return r.readResource(ctx, req)
	default:
		return wire.NewErrorResponse(req.ID, wire.CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil)
	}
}

// listOperations snapshots the registry at call time, so mutations are
// visible to the next list call without caching.
func (r *Router) listOperations(req *wire.Request) *wire.Response {
	ops := r.registry.All()

	infos := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		infos = append(infos, OperationInfo{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: op.Input.JSONSchema(),
		})
	}

	return wire.NewResponse(req.ID, ListOperationsResult{Operations: infos})
}

func (r *Router) callOperation(ctx context.Context, req *wire.Request) *wire.Response {
	var params CallParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return wire.NewErrorResponse(req.ID, wire.CodeInvalidParams,
			"Invalid params: operations/call requires a name", nil)
	}

	op, ok := r.registry.Get(params.Name)
	if !ok {
		return wire.NewErrorResponse(req.ID, wire.CodeOperationNotFound,
			fmt.Sprintf("Unknown tool: %s", params.Name), nil)
	}

	input, err := op.Input.Validate(params.Arguments)
	if err != nil {
		// Validation failures ride inside a successful envelope so the
		// caller receives structured detail, not an RPC fault.
		return rejectionResponse(req.ID, err)
	}

	result, err := r.invoke(ctx, op, input)
	if err != nil {
		r.log.Warn("operation failed",
			"operation", op.Name,
			"error", err)

		return wire.NewErrorResponse(req.ID, wire.CodeExecutionFailed,
			fmt.Sprintf("Tool execution failed: %s", err), nil)
	}

	return wire.NewResponse(req.ID, CallResult{
		Content: []TextContent{{Type: "text", Text: renderResult(result)}},
	})
}

// invoke runs the handler with panic recovery. A panicking handler must
// not take down the router.
func (r *Router) invoke(ctx context.Context, op registry.Operation, input map[string]any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return op.Handler(ctx, input)
}

func (r *Router) listResources(req *wire.Request) *wire.Response {
	resources := r.catalog.All()

	infos := make([]ResourceInfo, 0, len(resources))
	for _, res := range resources {
		mimeType := res.MIMEType
		if mimeType == "" {
			mimeType = catalog.DefaultMIMEType
		}

		infos = append(infos, ResourceInfo{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    mimeType,
		})
	}

	return wire.NewResponse(req.ID, ListResourcesResult{Resources: infos})
}

func (r *Router) readResource(ctx context.Context, req *wire.Request) *wire.Response {
	var params ReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.URI == "" {
		return wire.NewErrorResponse(req.ID, wire.CodeInvalidParams,
			"Invalid params: resources/read requires a uri", nil)
	}

	content, err := r.catalog.Read(ctx, params.URI)
	if err != nil {
		if errors.Is(err, twerrors.ErrResourceNotFound) {
			return wire.NewErrorResponse(req.ID, wire.CodeResourceNotFound,
				fmt.Sprintf("Resource not found: %s", params.URI), nil)
		}

		r.log.Warn("resource read failed",
			"uri", params.URI,
			"error", err)

		return wire.NewErrorResponse(req.ID, wire.CodeInternalError,
			fmt.Sprintf("Failed to read resource: %s", err), nil)
	}

	return wire.NewResponse(req.ID, ReadResourceResult{
		Contents: []ResourceContents{{
			URI:      content.URI,
			MIMEType: content.MIMEType,
			Text:     content.Text,
		}},
	})
}

// forward pushes one change record to the connected sink. Delivery is
// advisory: records arriving while not connected are dropped.
func (r *Router) forward(rec event.Record) {
	r.mu.Lock()
	sink := r.sink
	state := r.state
	r.mu.Unlock()

	if state != StateConnected || sink == nil {
		r.log.Debug("dropping change notification",
			"kind", string(rec.Kind),
			"operation", rec.Name,
			"state", state.String())

		return
	}

	n := wire.NewNotification(wire.MethodListChanged, ChangeParams{
		Kind:      string(rec.Kind),
		Name:      rec.Name,
		Timestamp: rec.Time.UnixMilli(),
	})

	if err := sink.SendNotification(n); err != nil {
		r.log.Warn("change notification not delivered",
			"operation", rec.Name,
			"error", err)
	}
}

// rejection is the machine-parseable payload a validation failure produces
// inside an otherwise successful envelope.
type rejection struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func rejectionResponse(id json.RawMessage, err error) *wire.Response {
	payload, _ := json.Marshal(rejection{Success: false, Error: err.Error()})

	return wire.NewResponse(id, CallResult{
		Content: []TextContent{{Type: "text", Text: string(payload)}},
	})
}

// renderResult flattens a handler result to text. Strings pass through
// verbatim, everything else is JSON-serialized.
func renderResult(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case json.RawMessage:
		return string(t)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(data)
	}
}
