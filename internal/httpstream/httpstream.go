package httpstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/toolwire/toolwire/internal/errors"
	"github.com/toolwire/toolwire/internal/router"
	"github.com/toolwire/toolwire/internal/wire"
)

const (
	// DefaultPath is the endpoint serving both POST requests and GET
	// event streams.
	DefaultPath = "/rpc"
	// DefaultAddr is used when no listen address is configured.
	DefaultAddr = "localhost:3000"
	// DefaultSessionBuffer is the per-stream notification backlog. A
	// session that falls further behind loses events.
	DefaultSessionBuffer = 10
	// DefaultShutdownGrace bounds how long Stop waits for in-flight
	// requests before forcing connections closed.
	DefaultShutdownGrace = 5 * time.Second
	// DefaultKeepAlive is the interval between keepalive comments on an
	// idle event stream.
	DefaultKeepAlive = 30 * time.Second

	// SessionHeader carries the generated session id on stream responses.
	SessionHeader = "Toolwire-Session-Id"

	// maxBodyBytes caps a POSTed request envelope.
	maxBodyBytes = 1024 * 1024 // 1MB
)

// Config holds the HTTP listener settings. Zero values select defaults.
type Config struct {
	Addr          string
	Path          string
	SessionBuffer int
	ShutdownGrace time.Duration
	KeepAlive     time.Duration
}

// Transport is the streaming HTTP adapter.
type Transport struct {
	log *slog.Logger
	cfg Config

	mu       sync.Mutex // protects lifecycle state
	started  bool
	closing  bool
	listener net.Listener
	server   *http.Server
	serveErr error

	done chan struct{}

	sessionsMu sync.RWMutex
	sessions   map[string]*session
}

// session is one connected event stream.
type session struct {
	id     string
	events chan []byte
	closed chan struct{}
	once   sync.Once
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.closed)
	})
}

// Compile-time verification that Transport can carry router notifications.
var _ router.Sink = (*Transport)(nil)

// New creates a streaming HTTP transport. Zero config fields are filled
// with defaults.
func New(log *slog.Logger, cfg Config) *Transport {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}

	if cfg.SessionBuffer <= 0 {
		cfg.SessionBuffer = DefaultSessionBuffer
	}

	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = DefaultShutdownGrace
	}

	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}

	return &Transport{
		log:      log.With("component", "http_transport"),
		cfg:      cfg,
		done:     make(chan struct{}),
		sessions: make(map[string]*session),
	}
}

// Start binds the listener and begins serving. Bind failures are returned
// synchronously; serve failures are reported through Err after Done.
func (t *Transport) Start(ctx context.Context, h wire.Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closing {
		return errors.ErrTransportClosed
	}

	if t.started {
		return errors.ErrTransportStarted
	}

	listener, err := net.Listen("tcp", t.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.cfg.Addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(t.cfg.Path, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			t.handleRequest(w, r, h)
		case http.MethodGet:
			t.handleStream(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/healthz", t.handleHealth)

	t.listener = listener
	t.server = &http.Server{
		Handler: t.recoverer(mux),
		// No WriteTimeout: the event stream must outlive any write
		// deadline.
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	t.started = true

	go t.serve()

	t.log.Info("http transport listening",
		"addr", listener.Addr().String(),
		"path", t.cfg.Path)

	return nil
}

func (t *Transport) serve() {
	defer close(t.done)

	err := t.server.Serve(t.listener)
	if err != nil && err != http.ErrServerClosed {
		t.mu.Lock()
		t.serveErr = err
		t.mu.Unlock()

		t.log.Error("http server failed", "error", err)
	}
}

// Stop closes every event stream, then shuts the server down gracefully
// within the configured grace period, forcing remaining connections closed
// on expiry.
func (t *Transport) Stop() error {
	t.mu.Lock()

	if t.closing {
		t.mu.Unlock()

		return nil
	}

	t.closing = true
	started := t.started
	server := t.server
	t.mu.Unlock()

	if !started {
		return nil
	}

	t.sessionsMu.Lock()
	for _, s := range t.sessions {
		s.close()
	}
	t.sessionsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), t.cfg.ShutdownGrace)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.log.Warn("graceful shutdown expired, forcing close", "error", err)

		if err := server.Close(); err != nil {
			return fmt.Errorf("close http server: %w", err)
		}
	}

	t.log.Debug("http transport stopped")

	return nil
}

// Done is closed when the server loop has exited.
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

// Err reports a serve failure, if any. Valid once Done is closed.
func (t *Transport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.serveErr
}

// Addr reports the bound listen address. Empty before Start.
func (t *Transport) Addr() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener == nil {
		return ""
	}

	return t.listener.Addr().String()
}

// SendNotification fans one notification out to every connected stream.
// Delivery is non-blocking and best effort.
func (t *Transport) SendNotification(n *wire.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()

	for _, s := range t.sessions {
		select {
		case s.events <- data:
		default:
			t.log.Debug("session backlog full, dropping notification",
				"session_id", s.id)
		}
	}

	return nil
}

// handleRequest serves one POSTed request envelope.
func (t *Transport) handleRequest(w http.ResponseWriter, r *http.Request, h wire.Handler) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		t.writeEnvelope(w, http.StatusBadRequest,
			wire.NewErrorResponse(nil, wire.CodeInvalidRequest, "Failed to read request body", nil))

		return
	}

	req, errResp := wire.ParseRequest(body)
	if errResp != nil {
		t.writeEnvelope(w, http.StatusOK, errResp)

		return
	}

	t.writeEnvelope(w, http.StatusOK, h.Handle(r.Context(), req))
}

// handleStream serves one GET as a long-lived Server-Sent Events session.
func (t *Transport) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)

		return
	}

	t.mu.Lock()
	closing := t.closing
	t.mu.Unlock()

	if closing {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)

		return
	}

	s := &session{
		id:     ulid.Make().String(),
		events: make(chan []byte, t.cfg.SessionBuffer),
		closed: make(chan struct{}),
	}

	t.sessionsMu.Lock()
	t.sessions[s.id] = s
	t.sessionsMu.Unlock()

	defer func() {
		t.sessionsMu.Lock()
		delete(t.sessions, s.id)
		t.sessionsMu.Unlock()

		s.close()
		t.log.Debug("stream closed", "session_id", s.id)
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(SessionHeader, s.id)

	fmt.Fprintf(w, "event: ready\ndata: {\"sessionId\":%q}\n\n", s.id)
	flusher.Flush()

	t.log.Debug("stream opened", "session_id", s.id)

	ticker := time.NewTicker(t.cfg.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.closed:
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case data := <-s.events:
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (t *Transport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// recoverer converts handler panics into an internal error envelope so a
// broken request cannot take down the process.
func (t *Transport) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				t.log.Error("panic serving request",
					"path", r.URL.Path,
					"panic", rec)

				t.writeEnvelope(w, http.StatusInternalServerError,
					wire.NewErrorResponse(nil, wire.CodeInternalError, "Internal server error", nil))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (t *Transport) writeEnvelope(w http.ResponseWriter, status int, resp *wire.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		t.log.Error("failed to encode response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(data); err != nil {
		t.log.Debug("failed to write response", "error", err)
	}
}
