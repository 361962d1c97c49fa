package toolwire

import (
	"io"
	"log/slog"
	"time"
)

// Options configures a Server. Most callers use the With* functional
// options instead of filling this struct directly.
type Options struct {
	// Logger receives diagnostics. Defaults to NopLogger.
	Logger *slog.Logger

	// In and Out replace the process streams used by ServeStdio. Both
	// must be set together; nil selects os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	// Notifier delivers desktop notifications for the built-in
	// send-notification operation. Defaults to an exec-backed notifier.
	Notifier Notifier

	// NotifyCommand is the notify-send compatible binary used when
	// Notifier is nil. Empty selects notify-send from PATH.
	NotifyCommand string

	// HTTPAddr is the listen address for ServeStreamableHTTP.
	// Defaults to localhost:3000.
	HTTPAddr string

	// HTTPPath is the protocol endpoint path for ServeStreamableHTTP.
	// Defaults to /rpc.
	HTTPPath string

	// KeepAlive is the event stream keepalive interval.
	KeepAlive time.Duration

	// ShutdownGrace bounds the wait for in-flight HTTP requests on stop.
	ShutdownGrace time.Duration

	// DisableBuiltins skips the built-in operation and documents.
	DisableBuiltins bool

	// Operations are registered at construction, in order.
	Operations []Operation

	// Resources extend the catalog beyond the built-in documents.
	Resources []Resource
}

// Option configures a Server using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for diagnostics.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithStreams replaces the process streams used by ServeStdio, which is
// how tests and embedders run a pipe session over in-memory pipes or
// sockets.
func WithStreams(in io.Reader, out io.Writer) Option {
	return func(o *Options) {
		o.In = in
		o.Out = out
	}
}

// WithNotifier replaces the notification backend used by the built-in
// send-notification operation.
func WithNotifier(n Notifier) Option {
	return func(o *Options) {
		o.Notifier = n
	}
}

// WithNotifyCommand sets the notify-send compatible binary used for
// desktop notifications. Ignored when WithNotifier is given.
func WithNotifyCommand(command string) Option {
	return func(o *Options) {
		o.NotifyCommand = command
	}
}

// WithHTTPAddr sets the listen address for ServeStreamableHTTP.
func WithHTTPAddr(addr string) Option {
	return func(o *Options) {
		o.HTTPAddr = addr
	}
}

// WithHTTPPath sets the protocol endpoint path for ServeStreamableHTTP.
func WithHTTPPath(path string) Option {
	return func(o *Options) {
		o.HTTPPath = path
	}
}

// WithKeepAlive sets the event stream keepalive interval.
func WithKeepAlive(interval time.Duration) Option {
	return func(o *Options) {
		o.KeepAlive = interval
	}
}

// WithShutdownGrace bounds the wait for in-flight HTTP requests on stop.
func WithShutdownGrace(grace time.Duration) Option {
	return func(o *Options) {
		o.ShutdownGrace = grace
	}
}

// WithoutBuiltins skips registration of the built-in send-notification
// operation and the toolwire://docs/ documents.
func WithoutBuiltins() Option {
	return func(o *Options) {
		o.DisableBuiltins = true
	}
}

// WithOperations registers operations at construction.
func WithOperations(ops ...Operation) Option {
	return func(o *Options) {
		o.Operations = append(o.Operations, ops...)
	}
}

// WithResources extends the resource catalog.
func WithResources(resources ...Resource) Option {
	return func(o *Options) {
		o.Resources = append(o.Resources, resources...)
	}
}
