package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/titohook/internal/xcontext"
	"github.com/garrettladley/titohook/internal/xhttp"
)

type RequestIDMiddleware struct {
	IDFunc func(*http.Request) string
}

// defaultRequestID keeps an upstream X-Request-ID when it is a UUID and mints one otherwise.
func defaultRequestID(r *http.Request) string {
	if upstream := r.Header.Get(xhttp.XRequestID); upstream != "" {
		if id, err := uuid.Parse(upstream); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

type RequestIDOption func(*RequestIDMiddleware)

func WithIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(m *RequestIDMiddleware) { m.IDFunc = fn }
}

func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	middleware := &RequestIDMiddleware{IDFunc: defaultRequestID}
	for _, opt := range opts {
		opt(middleware)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := middleware.IDFunc(r)
			ctx := xcontext.WithRequestID(r.Context(), id)
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
