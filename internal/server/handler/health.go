package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/xhttp"
	"github.com/garrettladley/titohook/internal/xslog"
)

const healthCheckTimeout = 2 * time.Second

type Health struct {
	pingers map[string]storage.Pinger
}

// NewHealth reports healthy only while every named dependency answers a ping.
func NewHealth(pingers map[string]storage.Pinger) *Health {
	return &Health{pingers: pingers}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleHealth handles GET /health requests.
func (h *Health) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok"}
	if len(h.pingers) > 0 {
		resp.Checks = make(map[string]string, len(h.pingers))
	}
	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			xslog.FromContext(ctx).WarnContext(ctx, "health check failed",
				xslog.Backend(name),
				xslog.Error(err),
			)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "ok" {
		xhttp.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	xhttp.WriteOK(w, resp)
}
