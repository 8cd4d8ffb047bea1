package slogx

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/clinic/pkg/idx"
)

type loggerKey struct{}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// With adds attributes to the logger carried by ctx.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID tags the context logger with a request ID.
func WithRequestID(ctx context.Context, id idx.ID) context.Context {
	return With(ctx, "req_id", id.String())
}

// WithUser tags the context logger with the authenticated caller.
func WithUser(ctx context.Context, userID int64, role string) context.Context {
	return With(ctx, "user_id", userID, "role", role)
}
