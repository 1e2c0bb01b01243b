package webhook

import (
	"context"
	"errors"

	"github.com/garrettladley/titohook/internal/service/notification"
	"github.com/garrettladley/titohook/internal/tito"
)

var (
	ErrNotConfigured    = errors.New("webhook secret not configured")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMalformedPayload = errors.New("malformed payload")
)

type ProcessRequest struct {
	Body       []byte
	Signature  string
	EventType  tito.EventType
	EndpointID string
}

type Outcome string

const (
	// OutcomeAccepted: the delivery was handled and recorded, with or without a publish.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeDuplicate: a record for the delivery already existed; nothing was done.
	OutcomeDuplicate Outcome = "already_processed"
)

type Result struct {
	Outcome Outcome
	EventID string
	// Published is empty when the event type produces no notification.
	Published notification.Kind
}

type Service interface {
	// ProcessWebhook verifies, deduplicates, routes and publishes one delivery.
	// Returns ErrNotConfigured if no secret is set.
	// Returns ErrInvalidSignature if the signature doesn't match the raw body.
	// Returns ErrMalformedPayload (wrapped) if the body can't be decoded.
	// Any other error is a downstream fault; nothing was recorded and the sender should retry.
	ProcessWebhook(ctx context.Context, req ProcessRequest) (Result, error)
}
