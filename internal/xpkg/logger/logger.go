package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey struct{}

// Logger is a thin wrapper over slog that every service passes by value.
type Logger struct {
	l *slog.Logger
}

// New creates a JSON logger writing to stdout with the given level
// (DEBUG, INFO, WARN, ERROR).
func New(level string) (Logger, error) {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return Logger{}, err
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	hostname, _ := os.Hostname()

	return Logger{l: slog.New(handler).With("hostname", hostname)}, nil
}

// Nop discards every record. Handy for tests.
func Nop() Logger {
	return Logger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", level)
	}
}

func (lg Logger) base() *slog.Logger {
	if lg.l == nil {
		return slog.Default()
	}
	return lg.l
}

// Action returns a logger tagged with the action being performed.
func (lg Logger) Action(action string) Logger {
	return Logger{l: lg.base().With("action", action)}
}

func (lg Logger) With(args ...any) Logger {
	return Logger{l: lg.base().With(args...)}
}

func (lg Logger) WithGroup(name string) Logger {
	return Logger{l: lg.base().WithGroup(name)}
}

// WithRequestID attaches the request id stored in ctx, if any.
func (lg Logger) WithRequestID(ctx context.Context) Logger {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return lg.With("request_id", id)
	}
	return lg
}

// ContextWithRequestID stores a request id for later WithRequestID calls.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func (lg Logger) Debug(msg string, args ...any) {
	lg.base().Debug(msg, args...)
}

func (lg Logger) Info(msg string, args ...any) {
	lg.base().Info(msg, args...)
}

func (lg Logger) Warn(msg string, args ...any) {
	lg.base().Warn(msg, args...)
}

func (lg Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	lg.base().Error(msg, args...)
}
