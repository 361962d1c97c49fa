// Package config carries the server configuration.
//
// Configuration is layered: compiled-in defaults, then an optional TOML
// file, then environment variables, with later layers winning. Command
// line flags are applied on top by the caller. Validation is separate
// from loading so flag overrides are validated too.
package config
