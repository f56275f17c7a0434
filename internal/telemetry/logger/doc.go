// Package logger provides structured logging for gmm7550.
//
// It wraps the standard library log/slog behind a small Logger
// interface:
//
//   - logger.go: configuration, level control and the global default
//   - context.go: context propagation of the logger and invocation fields
//   - redact.go: masking of credential-like attributes
//
// The CLI logs human-readable text to stderr by default; JSON output is
// available for scripting.
package logger
