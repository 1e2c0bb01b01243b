package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/garrettladley/titohook/internal/service/webhook"
	"github.com/garrettladley/titohook/internal/tito"
	"github.com/garrettladley/titohook/internal/xerrors"
	"github.com/garrettladley/titohook/internal/xhttp"
	"github.com/garrettladley/titohook/internal/xslog"
)

const maxWebhookBodyBytes = 1 << 20

type Webhook struct {
	service webhook.Service
}

func NewWebhook(service webhook.Service) *Webhook {
	return &Webhook{service: service}
}

// HandleTito handles POST /webhooks/tito requests.
func (h *Webhook) HandleTito(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			xerrors.WriteError(ctx, w, xerrors.RequestTooLarge(xerrors.WithCause(err)))
			return
		}
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("failed to read request body"), xerrors.WithCause(err)))
		return
	}

	req := webhook.ProcessRequest{
		Body:       body,
		Signature:  r.Header.Get(tito.HeaderSignature),
		EventType:  tito.EventType(r.Header.Get(tito.HeaderEventType)),
		EndpointID: r.Header.Get(tito.HeaderEndpointID),
	}
	if req.EndpointID != "" {
		ctx = xslog.WithAttrs(ctx, xslog.EndpointID(req.EndpointID))
	}

	result, err := h.service.ProcessWebhook(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, webhook.ErrNotConfigured):
		xerrors.WriteError(ctx, w, xerrors.NotFound(xerrors.WithMessage("webhook not configured")))
		return
	case errors.Is(err, webhook.ErrInvalidSignature):
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("invalid signature")))
		return
	default:
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithMessage("failed to process webhook"), xerrors.WithCause(err)))
		return
	}

	logger.DebugContext(ctx, "webhook handled",
		xslog.EventID(result.EventID),
		xslog.Outcome(string(result.Outcome)),
	)
	xhttp.WriteAccepted(w)
}
