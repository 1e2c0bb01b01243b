package handler

import (
	"errors"
	"net/http"

	"github.com/garrettladley/titohook/internal/service/agenda"
	"github.com/garrettladley/titohook/internal/xerrors"
	"github.com/garrettladley/titohook/internal/xhttp"
)

type Agenda struct {
	service agenda.Service
}

func NewAgenda(service agenda.Service) *Agenda {
	return &Agenda{service: service}
}

// HandleGet handles GET /agenda requests.
func (h *Agenda) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessions, err := h.service.GetAgenda(ctx)
	if err != nil {
		if errors.Is(err, agenda.ErrNotAvailable) {
			xerrors.WriteError(ctx, w, xerrors.NotFound(xerrors.WithMessage(err.Error())))
			return
		}
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithMessage("failed to load agenda"), xerrors.WithCause(err)))
		return
	}

	xhttp.WriteOK(w, sessions)
}
