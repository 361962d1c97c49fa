//go:build integration

// Package integration exercises complete sessions over the built-in
// transports, from client bytes to operation handlers and back.
//
// Run with:
//
//	go test -tags integration ./integration/
package integration

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toolwire/toolwire"
	"github.com/toolwire/toolwire/internal/httpstream"
)

const sessionTimeout = 2 * time.Second

// echoOperation is the sample operation the sessions register.
func echoOperation() toolwire.Operation {
	return toolwire.Operation{
		Name:        "echo",
		Description: "Echoes text back to the caller",
		Input: toolwire.NewShape(
			toolwire.String("text").Required().MinLength(1),
		),
		Handler: func(_ context.Context, input map[string]any) (any, error) {
			return map[string]any{"echo": input["text"]}, nil
		},
	}
}

// contentText extracts the text payload of a decoded call response.
func contentText(t *testing.T, resp map[string]any) string {
	t.Helper()

	result, ok := resp["result"].(map[string]any)
	require.True(t, ok, "response has no result: %v", resp)

	content, ok := result["content"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, content)

	block, ok := content[0].(map[string]any)
	require.True(t, ok)

	text, _ := block["text"].(string)

	return text
}

// readFrame collects the lines of one server-sent event frame.
func readFrame(t *testing.T, r *bufio.Reader) []string {
	t.Helper()

	var lines []string

	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)

		line = strings.TrimRight(line, "\n")
		if line == "" {
			if len(lines) > 0 {
				return lines
			}

			continue
		}

		lines = append(lines, line)
	}
}

// stdioSession is a served stdio transport over in-memory pipes, seen from
// the client side.
type stdioSession struct {
	t      *testing.T
	server *toolwire.Server
	in     *io.PipeWriter
	out    *bufio.Scanner
	cancel context.CancelFunc

	served   chan error
	waitOnce sync.Once
	result   error
}

func startStdioSession(t *testing.T, opts ...toolwire.Option) *stdioSession {
	t.Helper()

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()

	server, err := toolwire.New(append(opts, toolwire.WithStreams(serverIn, serverOut))...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	sess := &stdioSession{
		t:      t,
		server: server,
		in:     clientOut,
		cancel: cancel,
		served: make(chan error, 1),
	}

	go func() { sess.served <- server.ServeStdio(ctx) }()

	sess.out = bufio.NewScanner(clientIn)
	sess.out.Buffer(make([]byte, 1<<20), 1<<20)

	t.Cleanup(func() {
		cancel()
		_ = sess.wait()
	})

	return sess
}

// send writes one request line to the server.
func (s *stdioSession) send(line string) {
	s.t.Helper()

	_, err := io.WriteString(s.in, line+"\n")
	require.NoError(s.t, err)
}

// read decodes the next line from the server.
func (s *stdioSession) read() map[string]any {
	s.t.Helper()

	require.True(s.t, s.out.Scan(), "expected a line from the server: %v", s.out.Err())

	var decoded map[string]any
	require.NoError(s.t, json.Unmarshal(s.out.Bytes(), &decoded))

	return decoded
}

// wait blocks until Serve returns and reports its error.
func (s *stdioSession) wait() error {
	s.waitOnce.Do(func() {
		select {
		case s.result = <-s.served:
		case <-time.After(sessionTimeout):
			s.result = errors.New("session did not end")
		}
	})

	return s.result
}

// httpSession is a served HTTP transport bound to an ephemeral port.
type httpSession struct {
	t       *testing.T
	server  *toolwire.Server
	baseURL string
	rpcURL  string
	cancel  context.CancelFunc

	served   chan error
	waitOnce sync.Once
	result   error
}

func startHTTPSession(t *testing.T, opts ...toolwire.Option) *httpSession {
	t.Helper()

	server, err := toolwire.New(opts...)
	require.NoError(t, err)

	tr := httpstream.New(toolwire.NopLogger(), httpstream.Config{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())

	sess := &httpSession{
		t:      t,
		server: server,
		cancel: cancel,
		served: make(chan error, 1),
	}

	go func() { sess.served <- server.Serve(ctx, tr) }()

	require.Eventually(t, func() bool {
		return tr.Addr() != ""
	}, time.Second, 5*time.Millisecond, "transport did not bind")

	sess.baseURL = "http://" + tr.Addr()
	sess.rpcURL = sess.baseURL + httpstream.DefaultPath

	t.Cleanup(func() {
		cancel()
		_ = sess.wait()
	})

	return sess
}

// post sends one request envelope and returns the raw HTTP response.
func (s *httpSession) post(body string) (*http.Response, error) {
	return http.Post(s.rpcURL, "application/json", strings.NewReader(body))
}

// call sends one request envelope and decodes the response envelope.
func (s *httpSession) call(body string) map[string]any {
	s.t.Helper()

	resp, err := s.post(body)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	require.Equal(s.t, http.StatusOK, resp.StatusCode)

	var decoded map[string]any
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&decoded))

	return decoded
}

// wait blocks until Serve returns and reports its error.
func (s *httpSession) wait() error {
	s.waitOnce.Do(func() {
		select {
		case s.result = <-s.served:
		case <-time.After(sessionTimeout):
			s.result = errors.New("session did not end")
		}
	})

	return s.result
}
