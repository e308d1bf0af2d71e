// Package logger configures the process-wide slog logger and attaches
// per-request identifiers to log lines.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	// FormIDKey names the form session a request works on
	FormIDKey ContextKey = "form_id"
	// RoleKey is the caller's role (doctor, patient)
	RoleKey ContextKey = "role"
)

// contextKeys are copied onto every line logged through WithContext, in order
var contextKeys = []ContextKey{RequestIDKey, FormIDKey, RoleKey}

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // json, text
	Output io.Writer // defaults to stdout
}

// Init installs the default slog logger. Unknown levels fall back to info.
func Init(cfg *Config) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	w := cfg.Output
	if w == nil {
		w = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a configured level name to a slog level
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// WithValue returns ctx carrying value under key. Empty values are not stored.
func WithValue(ctx context.Context, key ContextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

// WithContext returns the default logger with the request identifiers found in ctx
func WithContext(ctx context.Context) *slog.Logger {
	var attrs []any
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, string(key), v)
		}
	}
	if len(attrs) == 0 {
		return slog.Default()
	}
	return slog.Default().With(attrs...)
}

func Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}
