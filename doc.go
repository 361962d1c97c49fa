// Package toolwire is a single-session server exposing named, schema-validated
// operations and URI-addressed resources over a JSON-RPC shaped protocol.
//
// A Server owns an operation registry and a resource catalog, routes the four
// protocol methods (operations/list, operations/call, resources/list,
// resources/read) against them, and pushes operations/list_changed
// notifications to the client whenever the registry changes. Two transports
// carry the protocol: a pipe transport speaking newline-delimited JSON on
// stdin/stdout, and a streaming HTTP transport pairing POSTed requests with a
// Server-Sent Events channel for notifications.
//
// # Basic Usage
//
// Create a server, register operations, and serve:
//
//	srv, err := toolwire.New(
//	    toolwire.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = srv.RegisterOperation(toolwire.Operation{
//	    Name:        "echo",
//	    Description: "Echoes text back to the caller",
//	    Input: toolwire.NewShape(
//	        toolwire.String("text").Required().MinLength(1),
//	    ),
//	    Handler: func(ctx context.Context, input map[string]any) (any, error) {
//	        return map[string]any{"echo": input["text"]}, nil
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := srv.ServeStdio(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Input Shapes
//
// Operation input is declared as a shape of typed fields and validated before
// the handler runs. Validation failures are reported to the caller inside a
// successful envelope whose text payload carries success false and a
// field-qualified message; the handler never sees invalid input.
//
//	toolwire.NewShape(
//	    toolwire.String("title").Required().MaxLength(100),
//	    toolwire.Enum("urgency", "low", "normal", "critical").Default("normal"),
//	    toolwire.Number("timeoutSeconds").Min(1).Max(60).Default(5),
//	    toolwire.Bool("sound"),
//	)
//
// # Resources
//
// Resources are fixed at construction and loaded lazily on every read:
//
//	srv, err := toolwire.New(
//	    toolwire.WithResources(
//	        toolwire.StaticResource("toolwire://docs/readme", "readme",
//	            "Project readme", "text/markdown", readme),
//	        toolwire.FileResource("toolwire://logs/latest", "latest-log",
//	            "Most recent log file", "text/plain", "/var/log/toolwire.log"),
//	    ),
//	)
//
// # Built-in Capabilities
//
// Unless WithoutBuiltins is set, every server carries a send-notification
// operation that delivers desktop notifications through a notify-send
// compatible command, plus welcome and usage documents under toolwire://docs/.
// The notifier backend is replaceable with WithNotifier.
//
// # Transports
//
// ServeStdio and ServeStreamableHTTP block until the context is cancelled or
// the transport finishes. Serve accepts any Transport implementation. A
// server hosts one session: once closed it cannot be reconnected.
//
// # Logging
//
// Logging uses log/slog. By default it is discarded; pass WithLogger for
// diagnostics. Protocol traffic is logged at debug level.
package toolwire
