package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garrettladley/titohook/internal/service/notification"
	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/tito"
	"github.com/garrettladley/titohook/internal/xslog"
)

type Processor struct {
	secret    string
	dedupe    storage.DedupeStore
	publisher notification.Service
	now       func() time.Time
}

var _ Service = (*Processor)(nil)

type Option func(*Processor)

// WithClock overrides the clock used to stamp dedupe records.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

func NewProcessor(secret string, dedupe storage.DedupeStore, publisher notification.Service, opts ...Option) *Processor {
	p := &Processor{
		secret:    secret,
		dedupe:    dedupe,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessWebhook runs verify → dedupe check → route → publish → record, in that order.
// The record is written only after a successful publish, so a crash in between can
// publish twice on redelivery but never drops a notification.
func (p *Processor) ProcessWebhook(ctx context.Context, req ProcessRequest) (Result, error) {
	logger := xslog.FromContext(ctx)

	switch tito.Verify(p.secret, req.Body, req.Signature) {
	case tito.VerificationValid:
	case tito.VerificationNotConfigured:
		return Result{}, ErrNotConfigured
	default:
		logger.WarnContext(ctx, "received invalid payload signature",
			xslog.EventType(req.EventType.String()),
			xslog.Signature(req.Signature),
			xslog.BodySize(len(req.Body)),
		)
		return Result{}, ErrInvalidSignature
	}

	env, err := ParseEnvelope(req.Body)
	if err != nil {
		return Result{}, err
	}

	key := storage.DedupeKey{
		Provider:  tito.Provider,
		EventType: req.EventType.String(),
		EventID:   env.Slug,
	}
	ctx = xslog.WithAttrs(ctx, xslog.DeliveryGroup(key.Provider, key.EventType, key.EventID))
	logger = xslog.FromContext(ctx)

	if _, err := p.dedupe.Get(ctx, key); err == nil {
		logger.InfoContext(ctx, "received duplicate webhook")
		return Result{Outcome: OutcomeDuplicate, EventID: env.Slug}, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Result{}, fmt.Errorf("check dedupe record: %w", err)
	}

	n, err := Route(req.EventType, req.Body)
	if err != nil {
		return Result{}, err
	}

	result := Result{Outcome: OutcomeAccepted, EventID: env.Slug}
	if n != nil {
		logger.InfoContext(ctx, "pushing notification to queue",
			xslog.Kind(n.Kind().String()),
			xslog.Reference(n.Reference()),
		)
		if err := p.publisher.Publish(ctx, n); err != nil {
			return Result{}, err
		}
		result.Published = n.Kind()
	}

	record := storage.DedupeRecord{DedupeKey: key, ProcessedAt: p.now().UTC()}
	if err := p.dedupe.Create(ctx, record); err != nil {
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return Result{}, fmt.Errorf("record dedupe: %w", err)
		}
		// lost the Get/Create race to a concurrent delivery of the same event
		logger.WarnContext(ctx, "concurrent duplicate delivery",
			xslog.Kind(result.Published.String()),
		)
		return result, nil
	}

	logger.InfoContext(ctx, "processed webhook",
		xslog.Kind(result.Published.String()),
	)
	return result, nil
}
