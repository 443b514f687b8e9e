package logctx

import (
	"context"

	"go.uber.org/zap"
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// WithRequestID stores the request correlation ID on ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the correlation ID stored on ctx
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok && s != "" {
		return s, true
	}
	return "", false
}

// Fields returns the zap fields that tie a log line to its request
func Fields(ctx context.Context) []zap.Field {
	if id, ok := RequestID(ctx); ok {
		return []zap.Field{zap.String("request_id", id)}
	}
	return nil
}
