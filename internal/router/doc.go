// Package router is the transport-agnostic protocol core.
//
// A Router dispatches decoded request envelopes to the operation registry
// and resource catalog, producing exactly one response envelope per request
// on every path, including handler panics. Validation failures are not
// protocol errors: they come back inside a successful envelope whose text
// payload reports success false with a field-qualified message, so callers
// get machine-parseable detail instead of a bare RPC fault.
//
// A Router moves through three states. It starts Disconnected, Connect
// attaches a notification Sink and subscribes to the change-event bus, and
// Close is terminal. While connected, registry change records are forwarded
// to the sink as operations/list_changed notifications, best effort.
// Routers are single-session: a closed Router cannot be reconnected.
package router
