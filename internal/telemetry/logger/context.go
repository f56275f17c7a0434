package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	loggerKey     contextKey = "gmm7550.logger"
	configNameKey contextKey = "gmm7550.config"
	commandKey    contextKey = "gmm7550.command"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithConfigName records the board configuration in use.
func WithConfigName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, configNameKey, name)
}

// ConfigNameFromContext returns the board configuration name, or "".
func ConfigNameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(configNameKey).(string); ok {
		return name
	}
	return ""
}

// WithCommand records the CLI command being run.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// CommandFromContext returns the CLI command, or "".
func CommandFromContext(ctx context.Context) string {
	if cmd, ok := ctx.Value(commandKey).(string); ok {
		return cmd
	}
	return ""
}

// L is a shorthand for FromContext that also adds the configuration
// name and command from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if name := ConfigNameFromContext(ctx); name != "" {
		l = l.With("config", name)
	}
	if cmd := CommandFromContext(ctx); cmd != "" {
		l = l.With("command", cmd)
	}

	return l
}
