package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type ctxKey struct{}

// requestScope is the logger of one API request plus the fields handlers
// attach to its summary line.
type requestScope struct {
	logger *zap.Logger

	mu     sync.Mutex
	fields []zap.Field
}

// WithRequest starts a request scope: base tagged with requestID (when set).
func WithRequest(ctx context.Context, base *zap.Logger, requestID string) context.Context {
	l := base
	if requestID != "" {
		l = base.With(zap.String("request_id", requestID))
	}
	return context.WithValue(ctx, ctxKey{}, &requestScope{logger: l})
}

// FromContext returns the request logger, or zap.NewNop() outside a request scope.
func FromContext(ctx context.Context) *zap.Logger {
	if s, ok := ctx.Value(ctxKey{}).(*requestScope); ok {
		return s.logger
	}
	return zap.NewNop()
}

// Annotate attaches fields to the request summary line, e.g. the search plan
// or the mentor looked up. Outside a request scope it does nothing.
func Annotate(ctx context.Context, fields ...zap.Field) {
	s, ok := ctx.Value(ctxKey{}).(*requestScope)
	if !ok {
		return
	}
	s.mu.Lock()
	s.fields = append(s.fields, fields...)
	s.mu.Unlock()
}

// Annotations returns a copy of the fields attached so far.
func Annotations(ctx context.Context) []zap.Field {
	s, ok := ctx.Value(ctxKey{}).(*requestScope)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]zap.Field(nil), s.fields...)
}
