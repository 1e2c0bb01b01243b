package xslog

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/titohook/internal/xcontext"
	"github.com/garrettladley/titohook/internal/xhttp"
)

const (
	groupRequest  = "request"
	groupResponse = "response"
	groupError    = "error"
	groupDelivery = "delivery"
)

const (
	keyID         = "id"
	keyHost       = "host"
	keyUserAgent  = "user_agent"
	keyProto      = "proto"
	keyQuery      = "query"
	keyForwarded  = "forwarded_for"
	keyStatusText = "status_text"
	keyDurationMS = "duration_ms"
	keyBytes      = "bytes"
	keyMessage    = "message"
	keyType       = "type"
	keyValue      = "value"
)

func RequestGroup(r *http.Request) slog.Attr {
	attrs := []slog.Attr{
		RequestMethod(r),
		RequestPath(r),
		RequestIP(r),
		slog.String(keyHost, r.Host),
		slog.String(keyUserAgent, r.UserAgent()),
		slog.String(keyProto, r.Proto),
	}
	if id, ok := xcontext.RequestID(r.Context()); ok {
		attrs = append(attrs, slog.String(keyID, id))
	}
	if xff := r.Header.Get(xhttp.XForwardedFor); xff != "" {
		attrs = append(attrs, slog.String(keyForwarded, xff))
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String(keyQuery, r.URL.RawQuery))
	}
	return slog.GroupAttrs(groupRequest, attrs...)
}

func ResponseGroup(status, bytes int, duration time.Duration) slog.Attr {
	return slog.Group(groupResponse,
		HTTPStatus(status),
		slog.String(keyStatusText, http.StatusText(status)),
		slog.Int(keyBytes, bytes),
		Duration(duration),
		slog.Int64(keyDurationMS, duration.Milliseconds()),
	)
}

func ErrorGroup(err error) slog.Attr {
	if err == nil {
		return slog.Group(groupError)
	}
	return slog.Group(groupError,
		slog.String(keyMessage, err.Error()),
		slog.String(keyType, fmt.Sprintf("%T", err)),
	)
}

func ErrorGroupWithStack(err any) slog.Attr {
	return slog.Group(groupError,
		slog.Any(keyValue, err),
		slog.String(keyType, fmt.Sprintf("%T", err)),
		Stack(),
	)
}

// DeliveryGroup identifies one webhook delivery by its dedupe key.
func DeliveryGroup(provider, eventType, eventID string) slog.Attr {
	return slog.Group(groupDelivery,
		Provider(provider),
		EventType(eventType),
		EventID(eventID),
	)
}
