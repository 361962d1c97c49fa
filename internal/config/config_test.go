package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toolwire/toolwire/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, TransportStdio, cfg.Transport)
	require.Equal(t, "localhost", cfg.Host)
	require.Equal(t, 3000, cfg.Port)
	require.False(t, cfg.Verbose)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path keeps defaults", func(t *testing.T) {
		cfg, err := Load("")

		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "toolwire.toml")
		require.NoError(t, os.WriteFile(path, []byte(
			"transport = \"http\"\nport = 8080\nverbose = true\n"), 0o600))

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, TransportHTTP, cfg.Transport)
		require.Equal(t, 8080, cfg.Port)
		require.True(t, cfg.Verbose)
		require.Equal(t, "localhost", cfg.Host)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "toolwire.toml")
		require.NoError(t, os.WriteFile(path, []byte("port = 8080\n"), 0o600))

		t.Setenv("TOOLWIRE_PORT", "9090")
		t.Setenv("TOOLWIRE_NOTIFY_COMMAND", "/usr/local/bin/notify")

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, 9090, cfg.Port)
		require.Equal(t, "/usr/local/bin/notify", cfg.NotifyCommand)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))

		require.Error(t, err)
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "toolwire.toml")
		require.NoError(t, os.WriteFile(path, []byte("transport = [broken\n"), 0o600))

		_, err := Load(path)

		require.Error(t, err)
		require.Contains(t, err.Error(), "parse config file")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "stdio is valid",
			mutate: func(c *Config) { c.Transport = TransportStdio },
		},
		{
			name:   "http is valid",
			mutate: func(c *Config) { c.Transport = TransportHTTP },
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Transport = "websocket" },
			wantErr: errors.ErrInvalidTransport,
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: errors.ErrInvalidPort,
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Port = 65536 },
			wantErr: errors.ErrInvalidPort,
		},
		{
			name:    "negative port",
			mutate:  func(c *Config) { c.Port = -1 },
			wantErr: errors.ErrInvalidPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := Default()

	require.Equal(t, "localhost:3000", cfg.Addr())

	cfg.Host = "::1"
	cfg.Port = 8080

	require.Equal(t, "[::1]:8080", cfg.Addr())
}
