package xcontext

import "context"

type requestIDKey struct{}

// WithRequestID stores id on ctx. An empty id leaves ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDOrEmpty is RequestID for callers that only forward the value.
func RequestIDOrEmpty(ctx context.Context) string {
	id, _ := RequestID(ctx)
	return id
}
