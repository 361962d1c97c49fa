package toolwire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/toolwire/toolwire/internal/catalog"
	"github.com/toolwire/toolwire/internal/event"
	"github.com/toolwire/toolwire/internal/httpstream"
	"github.com/toolwire/toolwire/internal/notifier"
	"github.com/toolwire/toolwire/internal/registry"
	"github.com/toolwire/toolwire/internal/router"
	"github.com/toolwire/toolwire/internal/stdio"
)

// State is the server lifecycle phase.
type State = router.State

// Server lifecycle phases. A server moves from disconnected to connected
// when a transport attaches, and to closed permanently on Close.
const (
	StateDisconnected = router.StateDisconnected
	StateConnected    = router.StateConnected
	StateClosed       = router.StateClosed
)

// Server exposes a set of operations and resources over the wire protocol.
// It owns the operation registry and resource catalog, dispatches requests
// against them, and pushes operations/list_changed notifications when the
// registry changes.
//
// A server handles one client session. Create it with New, register
// operations, then hand it a transport via ServeStdio, ServeStreamableHTTP,
// or Serve.
type Server struct {
	base *slog.Logger // shared with subcomponents, which tag themselves
	log  *slog.Logger
	opts *Options

	bus      *event.Bus
	registry *registry.Registry
	catalog  *catalog.Catalog
	router   *router.Router
	notify   notifier.Notifier
}

// Compile-time verification that Server implements Handler.
var _ Handler = (*Server)(nil)

// New creates a Server. The built-in send-notification operation and the
// toolwire://docs/ documents are installed unless WithoutBuiltins is given;
// operations passed via WithOperations are registered after them, in order.
func New(opts ...Option) (*Server, error) {
	options := applyOptions(opts)

	base := options.Logger
	if base == nil {
		base = NopLogger()
	}

	notify := options.Notifier
	if notify == nil {
		notify = notifier.NewExec(base, options.NotifyCommand)
	}

	bus := event.New(base)
	reg := registry.New(base, bus)

	var resources []Resource
	if !options.DisableBuiltins {
		resources = append(resources, builtinResources()...)
	}
	resources = append(resources, options.Resources...)

	s := &Server{
		base:     base,
		log:      base.With("component", "server"),
		opts:     options,
		bus:      bus,
		registry: reg,
		catalog:  catalog.New(base, resources...),
		notify:   notify,
	}
	s.router = router.New(base, bus, reg, s.catalog)

	if !options.DisableBuiltins {
		if err := reg.Register(s.sendNotificationOperation()); err != nil {
			return nil, fmt.Errorf("register built-in operation: %w", err)
		}
	}

	for _, op := range options.Operations {
		if err := reg.Register(op); err != nil {
			return nil, fmt.Errorf("register operation: %w", err)
		}
	}

	return s, nil
}

// RegisterOperation adds or replaces an operation. A connected client is
// notified of the change. Safe to call at any time, including while
// serving.
func (s *Server) RegisterOperation(op Operation) error {
	return s.registry.Register(op)
}

// UnregisterOperation removes the named operation, reporting whether it was
// registered.
func (s *Server) UnregisterOperation(name string) bool {
	return s.registry.Unregister(name)
}

// ClearOperations removes every operation, emitting one change notification
// per removal.
func (s *Server) ClearOperations() {
	s.registry.Clear()
}

// Operations returns the registered operations in registration order.
func (s *Server) Operations() []Operation {
	return s.registry.All()
}

// HasOperation reports whether the named operation is registered.
func (s *Server) HasOperation(name string) bool {
	return s.registry.Has(name)
}

// Resources returns the catalog in declaration order.
func (s *Server) Resources() []Resource {
	return s.catalog.All()
}

// ReadResource resolves the content of one catalog entry. It returns
// ErrResourceNotFound for URIs outside the catalog.
func (s *Server) ReadResource(ctx context.Context, uri string) (ResourceContent, error) {
	return s.catalog.Read(ctx, uri)
}

// Handle dispatches one decoded request envelope and returns its response.
// Embedders with their own framing call this directly instead of using a
// Transport.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	return s.router.Handle(ctx, req)
}

// Connect attaches a notification sink so registry changes reach the
// client. Serve calls this with its transport; call it directly only when
// embedding via Handle. A server accepts one sink for its lifetime.
func (s *Server) Connect(sink Sink) error {
	return s.router.Connect(sink)
}

// State reports the server lifecycle phase.
func (s *Server) State() State {
	return s.router.State()
}

// Close ends the session permanently. Subsequent requests are answered
// with a "Server is closed" error and further Connect attempts fail.
// Close is idempotent.
func (s *Server) Close() error {
	return s.router.Close()
}

// Serve runs the session over t until ctx is cancelled or the transport
// finishes on its own (client disconnect, stream error). The transport is
// stopped and the server closed before Serve returns; a server serves at
// most once.
func (s *Server) Serve(ctx context.Context, t Transport) error {
	if err := s.router.Connect(t); err != nil {
		return err
	}

	if err := t.Start(ctx, s.router); err != nil {
		_ = s.router.Close()

		return err
	}

	s.log.Info("serving session")

	select {
	case <-ctx.Done():
		s.log.Info("shutdown requested")
	case <-t.Done():
		s.log.Info("transport finished")
	}

	stopErr := t.Stop()
	closeErr := s.router.Close()

	if err := t.Err(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if stopErr != nil {
		return stopErr
	}

	return closeErr
}

// ServeStdio serves the session over the process's standard streams, one
// JSON envelope per line. WithStreams substitutes other streams.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, stdio.New(s.base, stdio.Config{
		In:  s.opts.In,
		Out: s.opts.Out,
	}))
}

// ServeStreamableHTTP serves the session over HTTP on the configured
// address: requests via POST, the notification stream via a GET event
// stream on the same path.
func (s *Server) ServeStreamableHTTP(ctx context.Context) error {
	return s.Serve(ctx, httpstream.New(s.base, httpstream.Config{
		Addr:          s.opts.HTTPAddr,
		Path:          s.opts.HTTPPath,
		KeepAlive:     s.opts.KeepAlive,
		ShutdownGrace: s.opts.ShutdownGrace,
	}))
}
