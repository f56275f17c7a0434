package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration. Empty Level and Format mean info and
// text.
type Config struct {
	Level     string    // debug, info, warn (or warning), error
	Format    string    // text, json
	Output    io.Writer // defaults to os.Stderr
	AddSource bool
}

// Supported values for Config.Level and Config.Format.
var (
	Levels  = []string{"debug", "info", "warn", "error"}
	Formats = []string{"text", "json"}
)

var levelByName = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text", Output: os.Stderr}
}

// ParseLevel maps a level name to its slog level. The empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	level, ok := levelByName[strings.ToLower(name)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be one of %s", name, strings.Join(Levels, ", "))
	}
	return level, nil
}

// Validate checks Level and Format against the supported values.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Format != "" && !slices.Contains(Formats, strings.ToLower(c.Format)) {
		return fmt.Errorf("invalid log format %q: must be one of %s", c.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// globalLevel is shared by every logger built with New, so the most
// recent New sets the level for all of them.
var globalLevel = new(slog.LevelVar)

type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

// New builds a logger from cfg. Credential-like attributes are redacted.
func New(cfg Config) (Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := ParseLevel(cfg.Level)
	globalLevel.Set(level)

	opts := &slog.HandlerOptions{
		Level:       globalLevel,
		AddSource:   cfg.AddSource,
		ReplaceAttr: redactSensitive,
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &slogLogger{logger: slog.New(handler), ctx: context.Background()}, nil
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.DebugContext(l.ctx, msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.InfoContext(l.ctx, msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.WarnContext(l.ctx, msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.ErrorContext(l.ctx, msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{logger: l.logger, ctx: ctx}
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the process-wide logger. Loggers not built by New
// are ignored.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load()
}

// Slog returns the *slog.Logger behind l, for APIs that take one directly.
// Loggers from other implementations map to slog.Default().
func Slog(l Logger) *slog.Logger {
	if sl, ok := l.(*slogLogger); ok {
		return sl.logger
	}
	return slog.Default()
}

// Debug logs through the process-wide logger.
func Debug(msg string, args ...any) {
	defaultLogger.Load().Debug(msg, args...)
}
