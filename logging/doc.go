// Package logging provides a minimal logging interface and adapters for agentcrew.
//
// The Logger interface defines the leveled methods (Debug, Info, Warn, Error)
// that the gateway, agents and runner use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - CrewLogger with component / run scoping and domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	crew, err := agentcrew.New(cfg, func(o *agentcrew.Options) { o.Logger = logger })
//
// Arguments after the message are slog-style key/value pairs.
package logging
