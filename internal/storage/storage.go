package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

// DedupeKey identifies one provider event: (provider, event type, provider event id).
type DedupeKey struct {
	Provider  string `json:"provider"`
	EventType string `json:"event_type"`
	EventID   string `json:"event_id"`
}

// DedupeRecord marks a delivery as handled. Records are never mutated or deleted here.
type DedupeRecord struct {
	DedupeKey
	ProcessedAt time.Time `json:"processed_at"`
}

type DedupeStore interface {
	// Get returns ErrNotFound if the delivery has not been handled.
	Get(ctx context.Context, key DedupeKey) (DedupeRecord, error)

	// Create persists a new marker as an insert-if-absent.
	// Returns ErrAlreadyExists if another request recorded the same key first.
	Create(ctx context.Context, record DedupeRecord) error
}

// Queue is an outbound message queue. Push returns once the transport acknowledged the message.
type Queue interface {
	Name() string
	Push(ctx context.Context, message []byte) error
}

// QueueInspector is implemented by queues that can report their backlog.
type QueueInspector interface {
	Len(ctx context.Context) (int64, error)

	// Peek returns up to count messages, oldest first, without removing them.
	Peek(ctx context.Context, count int64) ([][]byte, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }
