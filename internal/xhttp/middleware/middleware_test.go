package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/garrettladley/titohook/internal/xcontext"
	"github.com/garrettladley/titohook/internal/xhttp"
)

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	middleware := []func(http.Handler) http.Handler{mark("a"), mark("b"), mark("c")}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), middleware...)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got, want := strings.Join(order, ","), "a,b,c,handler"; got != want {
		t.Errorf("order = %q, want %q", got, want)
	}

	// the caller's slice is left untouched
	order = nil
	middleware[0](http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got := strings.Join(order, ","); got != "a" {
		t.Errorf("middleware[0] = %q, want a", got)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	upstream := uuid.NewString()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generates when missing"},
		{name: "keeps upstream uuid", header: upstream, wantSame: true},
		{name: "replaces garbage", header: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fromCtx string
			h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				fromCtx, _ = xcontext.RequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(xhttp.XRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(xhttp.XRequestID)
			if got != fromCtx {
				t.Errorf("header id %q != context id %q", got, fromCtx)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("request id %q is not a uuid", got)
			}
			if (got == tt.header) != tt.wantSame {
				t.Errorf("request id = %q, upstream %q, wantSame %v", got, tt.header, tt.wantSame)
			}
		})
	}
}

func TestRequestIDWithIDFunc(t *testing.T) {
	t.Parallel()

	h := RequestID(WithIDFunc(func(*http.Request) string { return "fixed" }))(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get(xhttp.XRequestID); got != "fixed" {
		t.Errorf("request id = %q, want fixed", got)
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/tito", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), `"message"`) {
		t.Errorf("body = %q, want JSON error", rec.Body.String())
	}
}

func TestRecoveryAfterHeadersSent(t *testing.T) {
	t.Parallel()

	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/tito", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestRecoveryRepanicsOnAbort(t *testing.T) {
	t.Parallel()

	defer func() {
		if got := recover(); got != http.ErrAbortHandler {
			t.Errorf("recover() = %v, want http.ErrAbortHandler", got)
		}
	}()

	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/agenda", nil))
}

func TestLoggingRecordsStatusAndBytes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), RequestID(), Logger(logger), Logging)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/agenda", nil))

	out := buf.String()
	for _, want := range []string{`"msg":"http request"`, `"status":418`, `"bytes":15`, `"request_id":`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []SecurityHeadersOption
		wantHSTS string
	}{
		{name: "defaults"},
		{name: "hsts", opts: []SecurityHeadersOption{WithHSTS(24 * time.Hour)}, wantHSTS: "max-age=86400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			SecurityHeaders(tt.opts...)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			for header, want := range map[string]string{
				xhttp.XContentTypeOpts:        "nosniff",
				xhttp.XFrameOpts:              "DENY",
				xhttp.CacheControl:            "no-store",
				xhttp.StrictTransportSecurity: tt.wantHSTS,
			} {
				if got := rec.Header().Get(header); got != want {
					t.Errorf("%s = %q, want %q", header, got, want)
				}
			}
		})
	}
}
