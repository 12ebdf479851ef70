package logger

import (
	"context"
	"log/slog"
)

type sessionKey struct{}

// WithSessionID returns a context whose records carry the session id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id stored in ctx.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}

func sessionExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := SessionID(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return Session(id), true
}

type requestIDKey struct{}

// WithRequestID returns a context whose records carry the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := RequestID(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}
