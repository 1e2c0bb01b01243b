package middleware

import (
	"net/http"

	"github.com/garrettladley/titohook/internal/xerrors"
	"github.com/garrettladley/titohook/internal/xslog"
)

// Recovery turns a handler panic into a logged 500. If the handler already
// sent headers the response is left as-is, since the status cannot change.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &headerTracker{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := r.Context()
			xslog.FromContext(ctx).ErrorContext(ctx, "panic recovered",
				xslog.RequestGroup(r),
				xslog.ErrorGroupWithStack(rec),
			)
			if !tw.wroteHeader {
				xerrors.WriteError(ctx, tw, xerrors.Internal())
			}
		}()
		next.ServeHTTP(tw, r)
	})
}

type headerTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (t *headerTracker) WriteHeader(code int) {
	t.wroteHeader = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.wroteHeader = true
	return t.ResponseWriter.Write(b)
}

func (t *headerTracker) Unwrap() http.ResponseWriter { return t.ResponseWriter }

func (t *headerTracker) Flush() {
	if f, ok := t.ResponseWriter.(http.Flusher); ok {
		t.wroteHeader = true
		f.Flush()
	}
}
