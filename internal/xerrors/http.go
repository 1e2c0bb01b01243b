package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/titohook/internal/xcontext"
	"github.com/garrettladley/titohook/internal/xhttp"
	"github.com/garrettladley/titohook/internal/xslog"
)

type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError logs err at a level matching its status and writes a JSON error body.
// Errors that are not *Error are reported as 500.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = Internal(WithCause(err))
	}

	logError(ctx, appErr)

	xhttp.SetHeaderContentTypeApplicationJSON(w)

	for key, values := range appErr.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}

	w.WriteHeader(appErr.StatusCode)

	_ = go_json.NewEncoder(w).Encode(errorResponse{
		Message:   appErr.Message,
		RequestID: xcontext.RequestIDOrEmpty(ctx),
	})
}

func logError(ctx context.Context, err *Error) {
	logger := xslog.FromContext(ctx)
	attrs := []any{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}
	if retryAfter := err.Header.Get(xhttp.RetryAfter); retryAfter != "" {
		attrs = append(attrs, slog.String("retry_after", retryAfter))
	}

	switch err.StatusCode / 100 {
	case 5:
		logger.ErrorContext(ctx, "server error", attrs...)
	case 4:
		logger.WarnContext(ctx, "client error", attrs...)
	default:
		logger.InfoContext(ctx, "error response", attrs...)
	}
}
