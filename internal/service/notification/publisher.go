package notification

import (
	"context"
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/xslog"
)

var ErrUnknownKind = errors.New("unknown notification kind")

type Service interface {
	// Publish pushes n onto the queue for its kind and returns once the queue acknowledged it.
	Publish(ctx context.Context, n Notification) error
}

type Publisher struct {
	orders  storage.Queue
	tickets storage.Queue
}

var _ Service = (*Publisher)(nil)

func NewPublisher(orders storage.Queue, tickets storage.Queue) *Publisher {
	return &Publisher{
		orders:  orders,
		tickets: tickets,
	}
}

func (p *Publisher) queueFor(n Notification) (storage.Queue, error) {
	switch n.(type) {
	case *Order:
		return p.orders, nil
	case *Ticket:
		return p.tickets, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, n)
	}
}

func (p *Publisher) Publish(ctx context.Context, n Notification) error {
	if n == nil {
		return fmt.Errorf("%w: nil notification", ErrUnknownKind)
	}

	queue, err := p.queueFor(n)
	if err != nil {
		return err
	}

	data, err := go_json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal %s notification: %w", n.Kind(), err)
	}

	if err := queue.Push(ctx, data); err != nil {
		return fmt.Errorf("publish %s notification: %w", n.Kind(), err)
	}

	xslog.FromContext(ctx).DebugContext(ctx, "published notification",
		xslog.Queue(queue.Name()),
		xslog.Reference(n.Reference()),
	)
	return nil
}
