package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/titohook/internal/version"
	"github.com/garrettladley/titohook/internal/xhttp"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

// RequestIP is the connection's peer address; forwarded addresses are logged separately.
func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.ClientIP(r, 0))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Provider(provider string) slog.Attr {
	const providerKey = "provider"
	return slog.String(providerKey, provider)
}

func EventType(eventType string) slog.Attr {
	const eventTypeKey = "event_type"
	return slog.String(eventTypeKey, eventType)
}

func EventID(eventID string) slog.Attr {
	const eventIDKey = "event_id"
	return slog.String(eventIDKey, eventID)
}

func EndpointID(endpointID string) slog.Attr {
	const endpointIDKey = "endpoint_id"
	return slog.String(endpointIDKey, endpointID)
}

func Signature(signature string) slog.Attr {
	const signatureKey = "signature"
	return slog.String(signatureKey, signature)
}

func BodySize(n int) slog.Attr {
	const bodySizeKey = "body_size"
	return slog.Int(bodySizeKey, n)
}

func Queue(name string) slog.Attr {
	const queueKey = "queue"
	return slog.String(queueKey, name)
}

func Kind(kind string) slog.Attr {
	const kindKey = "kind"
	return slog.String(kindKey, kind)
}

func Reference(reference string) slog.Attr {
	const referenceKey = "reference"
	return slog.String(referenceKey, reference)
}

func Backend(backend string) slog.Attr {
	const backendKey = "backend"
	return slog.String(backendKey, backend)
}

func Outcome(outcome string) slog.Attr {
	const outcomeKey = "outcome"
	return slog.String(outcomeKey, outcome)
}

func Migration(name string) slog.Attr {
	const migrationKey = "migration"
	return slog.String(migrationKey, name)
}

func RetryIn(d time.Duration) slog.Attr {
	const retryInKey = "retry_in"
	return slog.Duration(retryInKey, d)
}
