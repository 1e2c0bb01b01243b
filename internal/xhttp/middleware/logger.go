package middleware

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/titohook/internal/xcontext"
	"github.com/garrettladley/titohook/internal/xslog"
)

// Logger stores a per-request logger in the context so handlers and services
// log with the request id, method and path attached.
// Runs after RequestID.
func Logger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs := make([]any, 0, 3)
			if id, ok := xcontext.RequestID(r.Context()); ok {
				attrs = append(attrs, xslog.RequestID(id))
			}
			attrs = append(attrs, xslog.RequestMethod(r), xslog.RequestPath(r))

			ctx := xslog.WithLogger(r.Context(), base.With(attrs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
