// Package notifier is the boundary to the local notification system.
//
// The Notifier interface accepts a structured notification request and
// reports success (an opaque delivery id) or failure. Deliver wraps a
// notifier call with the completion race the server relies on: delivery is
// raced against a fixed timeout, and an expired timer resolves to assumed
// success, trading false positives for liveness. Failure text is classified
// into a small set of user-facing categories.
//
// The default implementation shells out to a notify-send compatible
// command.
package notifier
