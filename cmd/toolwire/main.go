// Command toolwire serves operations and resources over stdio or HTTP.
//
// Configuration is layered: defaults, then the TOML file given with
// --config, then TOOLWIRE_* environment variables, then explicit flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/toolwire/toolwire"
	"github.com/toolwire/toolwire/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("toolwire", pflag.ContinueOnError)

	configPath := flags.String("config", "", "path to a TOML config file")
	transport := flags.String("transport", config.TransportStdio, "transport to serve: stdio or http")
	host := flags.String("host", config.DefaultHost, "HTTP listen host")
	port := flags.Int("port", config.DefaultPort, "HTTP listen port")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	logFile := flags.String("log-file", "", "append logs to this file instead of stderr")
	notifyCommand := flags.String("notify-command", "", "notify-send compatible binary for desktop notifications")
	showVersion := flags.Bool("version", false, "print the version and exit")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return err
	}

	if *showVersion {
		fmt.Println("toolwire " + toolwire.Version)

		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Explicit flags override both the file and the environment.
	if flags.Changed("transport") {
		cfg.Transport = *transport
	}
	if flags.Changed("host") {
		cfg.Host = *host
	}
	if flags.Changed("port") {
		cfg.Port = *port
	}
	if flags.Changed("verbose") {
		cfg.Verbose = *verbose
	}
	if flags.Changed("log-file") {
		cfg.LogFile = *logFile
	}
	if flags.Changed("notify-command") {
		cfg.NotifyCommand = *notifyCommand
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, cleanup, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := toolwire.New(
		toolwire.WithLogger(log),
		toolwire.WithNotifyCommand(cfg.NotifyCommand),
		toolwire.WithHTTPAddr(cfg.Addr()),
	)
	if err != nil {
		return err
	}

	log.Info("starting server",
		"version", toolwire.Version,
		"transport", cfg.Transport,
	)

	if cfg.Transport == config.TransportHTTP {
		return server.ServeStreamableHTTP(ctx)
	}

	return server.ServeStdio(ctx)
}

// newLogger builds the process logger. Stdout carries the protocol on the
// stdio transport, so logs go to stderr or to the configured file.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	out := io.Writer(os.Stderr)
	cleanup := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}

		out = f
		cleanup = func() { _ = f.Close() }
	}

	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	return log, cleanup, nil
}
