package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/garrettladley/titohook/internal/xhttp"
)

type securityHeaders struct {
	hstsMaxAge time.Duration
}

type SecurityHeadersOption func(*securityHeaders)

// WithHSTS adds Strict-Transport-Security. Only enable behind TLS.
func WithHSTS(maxAge time.Duration) SecurityHeadersOption {
	return func(s *securityHeaders) { s.hstsMaxAge = maxAge }
}

// SecurityHeaders marks every response as non-cacheable JSON that must not be
// sniffed or framed.
func SecurityHeaders(opts ...SecurityHeadersOption) func(http.Handler) http.Handler {
	cfg := &securityHeaders{}
	for _, opt := range opts {
		opt(cfg)
	}

	var hsts string
	if cfg.hstsMaxAge > 0 {
		hsts = "max-age=" + strconv.FormatInt(int64(cfg.hstsMaxAge.Seconds()), 10)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(xhttp.XContentTypeOpts, "nosniff")
			h.Set(xhttp.XFrameOpts, "DENY")
			h.Set(xhttp.ReferrerPolicy, "no-referrer")
			h.Set(xhttp.CacheControl, "no-store")
			if hsts != "" {
				h.Set(xhttp.StrictTransportSecurity, hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}
