package notifier

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// DeliveryTimeout bounds how long a delivery may remain unconfirmed before
// it is assumed to have succeeded.
const DeliveryTimeout = 3 * time.Second

// Request describes one desktop notification.
type Request struct {
	// Title is the notification headline.
	Title string

	// Message is the body text.
	Message string

	// Subtitle is folded into the headline on systems without native
	// subtitle support.
	Subtitle string

	// Urgency is low, normal, or critical.
	Urgency string

	// Sound requests an audible alert.
	Sound bool

	// TimeoutSeconds asks the system to dismiss the notification after
	// this many seconds. Zero leaves dismissal to the system.
	TimeoutSeconds int

	// Icon names a themed icon or an icon file path.
	Icon string

	// ContentImagePath is an image shown inside the notification body.
	ContentImagePath string

	// OpenURL is a link offered alongside the notification.
	OpenURL string
}

// Notifier delivers notifications to the local system.
//
// Notify blocks until the system reports an outcome and returns an opaque
// delivery id on success. Implementations must honor context cancellation.
type Notifier interface {
	Notify(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, req Request) (string, error)

// Notify calls f.
func (f Func) Notify(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Outcome is the resolved result of a delivery attempt.
type Outcome struct {
	// Success reports whether the notification is considered delivered.
	Success bool

	// ID is the opaque delivery id. Set only on success.
	ID string

	// Assumed marks a success resolved by timer expiry rather than by
	// confirmation from the notifier.
	Assumed bool

	// Message is the user-facing failure description. Set only on failure.
	Message string
}

// Deliver invokes n and races completion against timeout. The first
// resolution wins: a confirmed result is reported as-is, while an expired
// timer resolves to assumed success with a generated id. Notification
// services confirm slowly or not at all on some systems, and a stalled
// confirmation almost always follows a delivered notification.
func Deliver(ctx context.Context, n Notifier, req Request, timeout time.Duration) Outcome {
	type result struct {
		id  string
		err error
	}

	done := make(chan result, 1)

	go func() {
		id, err := n.Notify(ctx, req)
		done <- result{id: id, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return Outcome{Message: Classify(res.err)}
		}

		return Outcome{Success: true, ID: res.id}
	case <-timer.C:
		return Outcome{Success: true, Assumed: true, ID: ulid.Make().String()}
	case <-ctx.Done():
		return Outcome{Message: Classify(ctx.Err())}
	}
}

// Classify maps a delivery error to a user-facing message. Unrecognized
// errors fall through to a generic failure carrying the original text.
func Classify(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "permission") ||
		strings.Contains(lower, "not authorized") ||
		strings.Contains(lower, "not allowed"):
		return "Notification permission denied. Check system notification settings."
	case errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "timeout"):
		return "Notification timed out. The notification service did not respond."
	case strings.Contains(lower, "executable file not found") ||
		strings.Contains(lower, "no such file") ||
		strings.Contains(lower, "not running") ||
		strings.Contains(lower, "connection refused"):
		return "Notification system unavailable. Ensure a notification service is running."
	case strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "too many requests"):
		return "Notifications are rate-limited. Try again shortly."
	default:
		return "Failed to send notification: " + msg
	}
}
