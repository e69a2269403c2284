package logger

import (
	"context"
	"log/slog"
)

// contextKey is a private type to avoid collisions with other packages'
// context values.
type contextKey struct{}

var loggerKey contextKey

// WithLogger returns a context carrying the given logger. Handlers attach a
// request-scoped logger (trace ID, user ID) so lower layers log with the
// same correlation attributes.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext retrieves the logger from the context, falling back to the
// process default when none is set. Never returns nil.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, falling back
// to the provided component logger (not the process default) when none is
// set. Never returns nil.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
		return log
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
