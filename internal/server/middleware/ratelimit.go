package middleware

import (
	"net/http"

	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/xerrors"
	"github.com/garrettladley/titohook/internal/xhttp"
	"github.com/garrettladley/titohook/internal/xslog"
)

const reasonIPRateLimit = "ip_rate_limit"

type rateLimitOptions struct {
	trustedHops int
}

type RateLimitOption func(*rateLimitOptions)

// WithTrustedProxyHops keys the limit on the address seen by the outermost of
// n reverse proxies instead of the connection's peer.
func WithTrustedProxyHops(n int) RateLimitOption {
	return func(o *rateLimitOptions) { o.trustedHops = n }
}

// RateLimit applies IP-based rate limiting.
func RateLimit(limiter storage.RateLimiter, opts ...RateLimitOption) func(http.Handler) http.Handler {
	o := &rateLimitOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := xhttp.ClientIP(r, o.trustedHops)

			result, err := limiter.Allow(ctx, ip)
			if err != nil {
				xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(
					xerrors.WithMessage("rate limit check failed"),
					xerrors.WithCause(err),
				))
				return
			}

			if !result.Allowed {
				xslog.FromContext(ctx).InfoContext(ctx, "rate limited", xslog.IP(ip))
				xerrors.WriteError(ctx, w, xerrors.TooManyRequests(
					xerrors.WithRetryAfter(result.RetryAfter),
					xerrors.WithReason(reasonIPRateLimit),
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
