// Package httpstream adapts an HTTP server to the request router.
//
// A single endpoint carries the whole protocol: POST delivers one request
// envelope and returns one response envelope, while GET opens a long-lived
// Server-Sent Events stream used exclusively for out-of-band notifications.
// Each stream is a session with a generated id, announced in a response
// header and in the stream's opening ready event. Notification fan-out is
// non-blocking; a session that cannot keep up loses events rather than
// stalling the registry.
//
// Shutdown closes every stream, then drains in-flight requests within a
// bounded grace period before forcing the listener closed.
package httpstream
