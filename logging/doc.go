// Package logging provides a minimal logging interface and adapters for the
// orchestrator and its collaborators.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the orchestrator, tool registry and providers use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - StructuredLogger, a log/slog backed Logger with query/component context
//   - ToolCallLogger and QueryLogger, optional interfaces the orchestrator and
//     batch executor use for structured call records when available
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	gen := orchestrator.New(client, func(o *orchestrator.Options) { o.Logger = logger })
package logging
