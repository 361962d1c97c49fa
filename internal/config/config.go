package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/toolwire/toolwire/internal/errors"
)

// Transport names accepted by the --transport flag and config file.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Default listen settings for the HTTP transport.
const (
	DefaultHost = "localhost"
	DefaultPort = 3000
)

// Config is the full server configuration.
type Config struct {
	// Transport is stdio or http.
	Transport string `toml:"transport" env:"TOOLWIRE_TRANSPORT"`

	// Host is the HTTP listen host.
	Host string `toml:"host" env:"TOOLWIRE_HOST"`

	// Port is the HTTP listen port, 1 through 65535.
	Port int `toml:"port" env:"TOOLWIRE_PORT"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose" env:"TOOLWIRE_VERBOSE"`

	// LogFile appends logs to a file instead of stderr. Empty keeps
	// stderr.
	LogFile string `toml:"log_file" env:"TOOLWIRE_LOG_FILE"`

	// NotifyCommand overrides the notify-send compatible binary used by
	// the send-notification operation.
	NotifyCommand string `toml:"notify_command" env:"TOOLWIRE_NOTIFY_COMMAND"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Transport: TransportStdio,
		Host:      DefaultHost,
		Port:      DefaultPort,
	}
}

// Load builds configuration from defaults, then the TOML file at path,
// then environment variables, later layers winning. An empty path skips
// the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is servable.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("%w: %q (expected stdio or http)", errors.ErrInvalidTransport, c.Transport)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (expected 1-65535)", errors.ErrInvalidPort, c.Port)
	}

	return nil
}

// Addr is the HTTP listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
