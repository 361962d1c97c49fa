package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toolwire/toolwire/internal/errors"
	"github.com/toolwire/toolwire/internal/router"
	"github.com/toolwire/toolwire/internal/wire"
)

const (
	// maxScanTokenSize is the maximum accepted request line length.
	maxScanTokenSize = 1024 * 1024 // 1MB
	// maxInFlight bounds concurrently dispatched requests per connection.
	maxInFlight = 8
	// stopTimeout bounds how long Stop waits for the read loop to drain.
	stopTimeout = 5 * time.Second
)

// Config holds the byte streams the transport bridges. Nil fields default
// to the process's standard streams.
type Config struct {
	In  io.Reader
	Out io.Writer
}

// Transport reads newline-delimited JSON envelopes from an input stream
// and writes response and notification envelopes to an output stream.
type Transport struct {
	log *slog.Logger
	in  io.Reader
	out io.Writer

	mu      sync.Mutex // protects out writes, lifecycle flags, readErr
	started bool
	closing bool
	readErr error

	cancel context.CancelFunc
	done   chan struct{}
}

// Compile-time verification that Transport can carry router notifications.
var _ router.Sink = (*Transport)(nil)

// New creates a stdio transport over the configured streams.
func New(log *slog.Logger, cfg Config) *Transport {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}

	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	return &Transport{
		log:  log.With("component", "stdio_transport"),
		in:   cfg.In,
		out:  cfg.Out,
		done: make(chan struct{}),
	}
}

// Start launches the read loop. It returns immediately; the transport
// serves until the input stream ends, the context is cancelled, or Stop
// is called.
func (t *Transport) Start(ctx context.Context, h wire.Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closing {
		return errors.ErrTransportClosed
	}

	if t.started {
		return errors.ErrTransportStarted
	}

	t.started = true

	ctx, t.cancel = context.WithCancel(ctx)

	go t.readLoop(ctx, h)

	t.log.Debug("stdio transport started")

	return nil
}

// Stop terminates the transport. The input stream is closed when it
// supports closing, which unblocks the read loop; the wait for in-flight
// requests is bounded.
func (t *Transport) Stop() error {
	t.mu.Lock()

	if t.closing {
		t.mu.Unlock()

		return nil
	}

	t.closing = true
	started := t.started
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if closer, ok := t.in.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			t.log.Debug("input stream close failed", "error", err)
		}
	}

	if !started {
		return nil
	}

	select {
	case <-t.done:
	case <-time.After(stopTimeout):
		t.log.Warn("timed out waiting for read loop to stop")
	}

	t.log.Debug("stdio transport stopped")

	return nil
}

// Done is closed when the read loop has exited, whether from input EOF,
// a read error, or Stop.
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

// Err reports the read loop failure, if any. Valid once Done is closed;
// a clean EOF leaves it nil.
func (t *Transport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.readErr
}

// SendNotification writes one notification envelope to the output stream.
func (t *Transport) SendNotification(n *wire.Notification) error {
	return t.write(n)
}

func (t *Transport) readLoop(ctx context.Context, h wire.Handler) {
	defer close(t.done)

	scanner := bufio.NewScanner(t.in)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	g := new(errgroup.Group)
	g.SetLimit(maxInFlight)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			t.log.Debug("context cancelled during scan")

			_ = g.Wait()

			return
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		// The scanner reuses its buffer; the request may outlive this
		// iteration.
		data := make([]byte, len(line))
		copy(data, line)

		g.Go(func() error {
			t.serve(ctx, h, data)

			return nil
		})
	}

	// Closing the input stream from Stop surfaces here as a read error;
	// only failures of a live stream are worth reporting.
	if err := scanner.Err(); err != nil {
		t.mu.Lock()
		closing := t.closing
		if !closing {
			t.readErr = err
		}
		t.mu.Unlock()

		if !closing {
			t.log.Error("failed reading input stream", "error", err)
		}
	}

	_ = g.Wait()

	t.log.Debug("read loop finished")
}

func (t *Transport) serve(ctx context.Context, h wire.Handler, data []byte) {
	req, errResp := wire.ParseRequest(data)
	if errResp != nil {
		if err := t.write(errResp); err != nil {
			t.log.Error("failed to write error response", "error", err)
		}

		return
	}

	resp := h.Handle(ctx, req)

	if err := t.write(resp); err != nil {
		t.log.Error("failed to write response",
			"method", req.Method,
			"error", err)
	}
}

// write encodes one envelope and appends it as a single output line.
func (t *Transport) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, err = t.out.Write(append(data, '\n'))

	return err
}
