package slogx

import (
	"context"
	"log/slog"
)

// scope is what a console command or proxied request carries through its
// context: the logger to use and the id that ties console, proxy and agency
// log lines together.
type scope struct {
	logger    *slog.Logger
	requestID string
}

type scopeKey struct{}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithContext stores logger in ctx, keeping any request id already there.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	s := scopeOf(ctx)
	s.logger = logger
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if s := scopeOf(ctx); s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// WithRequestID tags ctx with id. A logger already in ctx is tagged too.
func WithRequestID(ctx context.Context, id string) context.Context {
	s := scopeOf(ctx)
	s.requestID = id
	if s.logger != nil {
		s.logger = s.logger.With("req_id", id)
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// RequestID is the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	return scopeOf(ctx).requestID
}
