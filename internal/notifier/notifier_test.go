package notifier

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeliver(t *testing.T) {
	t.Run("confirmed success", func(t *testing.T) {
		n := Func(func(_ context.Context, _ Request) (string, error) {
			return "delivery-1", nil
		})

		outcome := Deliver(context.Background(), n, Request{Title: "hi"}, time.Second)

		require.True(t, outcome.Success)
		require.False(t, outcome.Assumed)
		require.Equal(t, "delivery-1", outcome.ID)
		require.Empty(t, outcome.Message)
	})

	t.Run("confirmed failure", func(t *testing.T) {
		n := Func(func(_ context.Context, _ Request) (string, error) {
			return "", errors.New("dbus: connection refused")
		})

		outcome := Deliver(context.Background(), n, Request{Title: "hi"}, time.Second)

		require.False(t, outcome.Success)
		require.Empty(t, outcome.ID)
		require.Contains(t, outcome.Message, "Notification system unavailable")
	})

	t.Run("assumed success on timer expiry", func(t *testing.T) {
		started := make(chan struct{})
		n := Func(func(ctx context.Context, _ Request) (string, error) {
			close(started)
			<-ctx.Done()

			return "", ctx.Err()
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		outcome := Deliver(ctx, n, Request{Title: "hi"}, 20*time.Millisecond)

		<-started
		require.True(t, outcome.Success)
		require.True(t, outcome.Assumed)
		require.NotEmpty(t, outcome.ID)
	})

	t.Run("context cancellation is a failure", func(t *testing.T) {
		n := Func(func(ctx context.Context, _ Request) (string, error) {
			<-ctx.Done()

			return "", ctx.Err()
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		outcome := Deliver(ctx, n, Request{Title: "hi"}, time.Second)

		require.False(t, outcome.Success)
		require.NotEmpty(t, outcome.Message)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "permission denied",
			err:  errors.New("org.freedesktop.Notifications: permission denied"),
			want: "Notification permission denied. Check system notification settings.",
		},
		{
			name: "not authorized",
			err:  errors.New("caller is not authorized"),
			want: "Notification permission denied. Check system notification settings.",
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: "Notification timed out. The notification service did not respond.",
		},
		{
			name: "timeout text",
			err:  errors.New("request timed out after 30s"),
			want: "Notification timed out. The notification service did not respond.",
		},
		{
			name: "missing binary",
			err:  errors.New(`exec: "notify-send": executable file not found in $PATH`),
			want: "Notification system unavailable. Ensure a notification service is running.",
		},
		{
			name: "service not running",
			err:  errors.New("notification daemon not running"),
			want: "Notification system unavailable. Ensure a notification service is running.",
		},
		{
			name: "rate limited",
			err:  errors.New("rate limit exceeded for notifications"),
			want: "Notifications are rate-limited. Try again shortly.",
		},
		{
			name: "unrecognized error keeps original text",
			err:  errors.New("mysterious failure"),
			want: "Failed to send notification: mysterious failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestBuildArgs(t *testing.T) {
	t.Run("minimal request is summary and body only", func(t *testing.T) {
		args := buildArgs(Request{Title: "Build done", Message: "all green"})

		require.Equal(t, []string{"Build done", "all green"}, args)
	})

	t.Run("full request", func(t *testing.T) {
		args := buildArgs(Request{
			Title:            "Deploy",
			Message:          "finished",
			Subtitle:         "production",
			Urgency:          "critical",
			Sound:            true,
			TimeoutSeconds:   5,
			Icon:             "dialog-information",
			ContentImagePath: "/tmp/shot.png",
			OpenURL:          "https://ci.example.com/run/42",
		})

		require.Equal(t, []string{
			"--urgency", "critical",
			"--expire-time", "5000",
			"--icon", "dialog-information",
			"--hint", "string:image-path:/tmp/shot.png",
			"--hint", "string:sound-name:message-new-instant",
			"Deploy (production)",
			"finished\nOpen: https://ci.example.com/run/42",
		}, args)
	})

	t.Run("zero timeout omits expire-time", func(t *testing.T) {
		args := buildArgs(Request{Title: "t", Message: "m"})

		require.NotContains(t, args, "--expire-time")
	})
}

func TestExecNotify(t *testing.T) {
	t.Run("missing binary classifies as unavailable", func(t *testing.T) {
		n := NewExec(slog.Default(), "/nonexistent/toolwire-notify-helper")

		id, err := n.Notify(context.Background(), Request{Title: "hi", Message: "there"})

		require.Error(t, err)
		require.Empty(t, id)
		require.Contains(t, Classify(err), "Notification system unavailable")
	})

	t.Run("clean exit yields delivery id", func(t *testing.T) {
		n := NewExec(slog.Default(), "true")

		id, err := n.Notify(context.Background(), Request{Title: "hi", Message: "there"})

		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("empty command falls back to default", func(t *testing.T) {
		n := NewExec(slog.Default(), "")

		require.Equal(t, DefaultCommand, n.command)
	})
}
