package agenda

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/xslog"
)

// Shuffler reorders n elements in place using swap.
type Shuffler func(n int, swap func(i, j int))

type Agenda struct {
	store         storage.AgendaStore
	availableFrom time.Time
	shuffle       Shuffler
	now           func() time.Time
}

var _ Service = (*Agenda)(nil)

type Option func(*Agenda)

// WithAvailableFrom hides the agenda until t. The zero time publishes it immediately.
func WithAvailableFrom(t time.Time) Option {
	return func(a *Agenda) { a.availableFrom = t }
}

func WithShuffler(s Shuffler) Option {
	return func(a *Agenda) { a.shuffle = s }
}

func WithClock(now func() time.Time) Option {
	return func(a *Agenda) { a.now = now }
}

func New(store storage.AgendaStore, opts ...Option) *Agenda {
	a := &Agenda{
		store:   store,
		shuffle: rand.Shuffle,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agenda) GetAgenda(ctx context.Context) ([]Session, error) {
	if !a.availableFrom.IsZero() && a.now().Before(a.availableFrom) {
		return nil, ErrNotAvailable
	}

	var (
		sessions   []storage.SessionRecord
		presenters []storage.PresenterRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = a.store.ListSessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		presenters, err = a.store.ListPresenters(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load agenda: %w", err)
	}

	byID := make(map[string]Presenter, len(presenters))
	for _, p := range presenters {
		byID[p.ID] = Presenter{
			ID:              p.ID,
			Name:            p.Name,
			Tagline:         p.Tagline,
			Bio:             p.Bio,
			ProfilePhotoURL: p.ProfilePhotoURL,
			TwitterHandle:   p.TwitterHandle,
			WebsiteURL:      p.WebsiteURL,
		}
	}

	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.InAgenda {
			continue
		}

		session := Session{
			ID:         s.ID,
			Title:      s.Title,
			Abstract:   s.Abstract,
			Format:     s.Format,
			Level:      s.Level,
			Tags:       s.Tags,
			Presenters: make([]Presenter, 0, len(s.PresenterIDs)),
		}
		if session.Tags == nil {
			session.Tags = []string{}
		}
		for _, id := range s.PresenterIDs {
			p, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: session %s, presenter %s", ErrUnknownPresenter, s.ID, id)
			}
			session.Presenters = append(session.Presenters, p)
		}
		out = append(out, session)
	}

	a.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	xslog.FromContext(ctx).DebugContext(ctx, "loaded agenda", xslog.Count(len(out)))
	return out, nil
}
