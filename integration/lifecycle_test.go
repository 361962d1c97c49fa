//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toolwire/toolwire"
)

func TestServerServesOneSession(t *testing.T) {
	sess := startStdioSession(t)

	sess.cancel()
	require.NoError(t, sess.wait())
	require.Equal(t, toolwire.StateClosed, sess.server.State())

	require.ErrorIs(t, sess.server.ServeStdio(context.Background()), toolwire.ErrServerClosed)
}
