package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the application logger: slog with a component tag stamped on
// every record, so one subsystem can be filtered out of the combined stream
// with a single field match.
type Logger struct {
	*slog.Logger
	component string
}

// Config controls handler construction. The zero value is usable; New fills
// the gaps with the application defaults.
type Config struct {
	Level     slog.Level
	Component string
	JSON      bool
	Output    io.Writer
}

// DefaultConfig reads LOG_LEVEL and LOG_FORMAT from the environment so a
// deployment can tune verbosity and switch to JSON without a rebuild.
func DefaultConfig() Config {
	return Config{
		Level:     ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: ComponentApp,
		JSON:      strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
	}
}

// ParseLevel maps a level name onto slog's levels. Unknown names, including
// the empty string, mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger from the configuration.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	component := cfg.Component
	if component == "" {
		component = ComponentApp
	}

	return &Logger{Logger: slog.New(handler), component: component}
}

// With returns a logger carrying extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), component: l.component}
}

// WithComponent rebinds the component tag for a subsystem, sharing the
// backing handler.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger, component: component}
}

// Component returns the component tag.
func (l *Logger) Component() string {
	return l.component
}

// log is the single funnel that stamps the component field on a record.
func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.Logger.Log(ctx, level, msg, append([]any{FieldComponent, l.component}, args...)...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args...)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

// SetDefault installs the logger's backing slog.Logger process-wide so plain
// slog calls share its handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
