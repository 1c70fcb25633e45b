package logging

import "context"

type contextKey string

const requestIDKey contextKey = "campusdesk.request_id"

// WithRequestID stores the request ID in ctx. Records logged with the
// returned context carry it as the "request_id" attribute.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
