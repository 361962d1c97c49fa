package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
)

// DefaultCommand is the notify-send compatible binary used when no command
// is configured.
const DefaultCommand = "notify-send"

// Exec delivers notifications by running a notify-send compatible command.
type Exec struct {
	log     *slog.Logger
	command string
}

// Compile-time verification that Exec implements Notifier.
var _ Notifier = (*Exec)(nil)

// NewExec creates an exec-backed notifier. An empty command selects
// DefaultCommand.
func NewExec(log *slog.Logger, command string) *Exec {
	if command == "" {
		command = DefaultCommand
	}

	return &Exec{
		log:     log.With("component", "notifier"),
		command: command,
	}
}

// Notify runs the configured command and returns a generated delivery id
// when it exits cleanly. Command output is folded into the error on
// failure; notify-send writes its diagnostics to stderr.
func (e *Exec) Notify(ctx context.Context, req Request) (string, error) {
	args := buildArgs(req)

	e.log.Debug("delivering notification",
		"command", e.command,
		"title", req.Title)

	//nolint:gosec // G204: the command is operator configuration
	cmd := exec.CommandContext(ctx, e.command, args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			return "", fmt.Errorf("%s: %w: %s", e.command, err, detail)
		}

		return "", fmt.Errorf("%s: %w", e.command, err)
	}

	return ulid.Make().String(), nil
}

// buildArgs constructs notify-send arguments from the request.
func buildArgs(req Request) []string {
	var args []string

	if req.Urgency != "" {
		args = append(args, "--urgency", req.Urgency)
	}

	if req.TimeoutSeconds > 0 {
		// notify-send takes expiry in milliseconds.
		args = append(args, "--expire-time", strconv.Itoa(req.TimeoutSeconds*1000))
	}

	if req.Icon != "" {
		args = append(args, "--icon", req.Icon)
	}

	if req.ContentImagePath != "" {
		args = append(args, "--hint", "string:image-path:"+req.ContentImagePath)
	}

	if req.Sound {
		args = append(args, "--hint", "string:sound-name:message-new-instant")
	}

	summary := req.Title
	if req.Subtitle != "" {
		// No native subtitle support, fold it into the summary line.
		summary = req.Title + " (" + req.Subtitle + ")"
	}

	body := req.Message
	if req.OpenURL != "" {
		body += "\nOpen: " + req.OpenURL
	}

	return append(args, summary, body)
}
