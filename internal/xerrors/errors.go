package xerrors

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/garrettladley/titohook/internal/xhttp"
)

// Error is an error with the HTTP response it should produce.
// Message is shown to the caller; Cause is only logged.
type Error struct {
	StatusCode int
	Message    string
	Cause      error
	Header     http.Header
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func BadRequest(opts ...Option) *Error         { return newErr(http.StatusBadRequest, opts) }
func NotFound(opts ...Option) *Error           { return newErr(http.StatusNotFound, opts) }
func RequestTooLarge(opts ...Option) *Error    { return newErr(http.StatusRequestEntityTooLarge, opts) }
func TooManyRequests(opts ...Option) *Error    { return newErr(http.StatusTooManyRequests, opts) }
func Internal(opts ...Option) *Error           { return newErr(http.StatusInternalServerError, opts) }
func ServiceUnavailable(opts ...Option) *Error { return newErr(http.StatusServiceUnavailable, opts) }

func newErr(status int, opts []Option) *Error {
	e := &Error{StatusCode: status, Message: strings.ToLower(http.StatusText(status))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Error)

func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }
func WithCause(err error) Option    { return func(e *Error) { e.Cause = err } }

// WithHeader sets a response header written alongside the error body.
func WithHeader(key, value string) Option {
	return func(e *Error) {
		if e.Header == nil {
			e.Header = make(http.Header)
		}
		e.Header.Set(key, value)
	}
}

// WithRetryAfter sets Retry-After in whole seconds, rounded up. Non-positive durations are ignored.
func WithRetryAfter(d time.Duration) Option {
	if d <= 0 {
		return func(*Error) {}
	}
	return WithHeader(xhttp.RetryAfter, xhttp.RetryAfterSeconds(d))
}

// WithReason tells a throttled client which limit it hit.
func WithReason(reason string) Option {
	return WithHeader(xhttp.XRateLimitReason, reason)
}

func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
