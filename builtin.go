package toolwire

import (
	"context"

	"github.com/toolwire/toolwire/internal/notifier"
)

type (
	// Notifier delivers desktop notifications on behalf of the built-in
	// send-notification operation. Replace it with WithNotifier to route
	// notifications elsewhere, for example in tests or on headless hosts.
	Notifier = notifier.Notifier

	// NotifierFunc adapts a function to the Notifier interface.
	NotifierFunc = notifier.Func

	// NotificationRequest describes one desktop notification.
	NotificationRequest = notifier.Request
)

// SendNotificationOperation is the name of the built-in notification
// operation.
const SendNotificationOperation = "send-notification"

// URIs of the built-in documents.
const (
	WelcomeResourceURI = "toolwire://docs/welcome"
	UsageResourceURI   = "toolwire://docs/usage"
)

const welcomeDocument = `# Welcome

This server exposes named operations and readable resources over a
line-oriented JSON protocol.

Call operations/list to discover what is available. Every operation
carries a JSON Schema describing its input, and invalid input is rejected
before the operation runs. Call resources/list and resources/read to
browse documents like this one.

When the operation set changes, the server pushes an
operations/list_changed notification so you can refresh your listing.
`

const usageDocument = `# Usage

## Operations

- operations/list: list operations with their input schemas.
- operations/call: invoke one operation. Params: {"name": ..., "arguments": {...}}.

A call that fails validation returns a text payload of the form
{"success": false, "error": "..."} describing the first violation.

## Resources

- resources/list: list readable documents.
- resources/read: read one document. Params: {"uri": ...}.

## Built-in operation

send-notification posts a desktop notification. Required: title (max 100
characters) and message (max 500 characters). Optional: subtitle, urgency
(low, normal, critical), sound, timeoutSeconds (1-60), icon,
contentImagePath, and openUrl (http or https).
`

func builtinResources() []Resource {
	return []Resource{
		StaticResource(WelcomeResourceURI, "welcome", "Introduction to this server", "text/markdown", welcomeDocument),
		StaticResource(UsageResourceURI, "usage", "Operation and resource reference", "text/markdown", usageDocument),
	}
}

// notifyOutcome is the structured result payload of send-notification.
// Delivery problems are reported here rather than as execution failures,
// so callers always receive a parseable verdict.
type notifyOutcome struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Assumed bool   `json:"assumed,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) sendNotificationOperation() Operation {
	return Operation{
		Name:        SendNotificationOperation,
		Description: "Send a desktop notification to the local system",
		Input: NewShape(
			String("title").Required().MaxLength(100).Description("Notification headline"),
			String("message").Required().MaxLength(500).Description("Notification body"),
			String("subtitle").MaxLength(100).Description("Secondary headline"),
			Enum("urgency", "low", "normal", "critical").Default("normal").Description("Delivery urgency"),
			Bool("sound").Default(false).Description("Play an audible alert"),
			Number("timeoutSeconds").Min(1).Max(60).Default(5).Description("Seconds before the notification is dismissed"),
			String("icon").Description("Icon name or icon file path"),
			String("contentImagePath").Description("Image shown inside the notification"),
			String("openUrl").Pattern(`^https?://`).Description("Link offered with the notification"),
		),
		Handler: s.handleSendNotification,
	}
}

func (s *Server) handleSendNotification(ctx context.Context, input map[string]any) (any, error) {
	req := notifier.Request{
		Title:            stringArg(input, "title"),
		Message:          stringArg(input, "message"),
		Subtitle:         stringArg(input, "subtitle"),
		Urgency:          stringArg(input, "urgency"),
		Sound:            boolArg(input, "sound"),
		TimeoutSeconds:   intArg(input, "timeoutSeconds"),
		Icon:             stringArg(input, "icon"),
		ContentImagePath: stringArg(input, "contentImagePath"),
		OpenURL:          stringArg(input, "openUrl"),
	}

	outcome := notifier.Deliver(ctx, s.notify, req, notifier.DeliveryTimeout)

	return notifyOutcome{
		Success: outcome.Success,
		ID:      outcome.ID,
		Assumed: outcome.Assumed,
		Error:   outcome.Message,
	}, nil
}

func stringArg(input map[string]any, key string) string {
	v, _ := input[key].(string)

	return v
}

func boolArg(input map[string]any, key string) bool {
	v, _ := input[key].(bool)

	return v
}

func intArg(input map[string]any, key string) int {
	switch v := input[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
