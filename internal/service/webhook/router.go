package webhook

import (
	"fmt"
	"strconv"
	"strings"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/titohook/internal/service/notification"
	"github.com/garrettladley/titohook/internal/tito"
)

// ParseEnvelope extracts the provider event id every delivery is deduplicated on.
func ParseEnvelope(body []byte) (tito.Envelope, error) {
	var env tito.Envelope
	if err := go_json.Unmarshal(body, &env); err != nil {
		return tito.Envelope{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if env.Slug == "" {
		return tito.Envelope{}, fmt.Errorf("%w: missing slug", ErrMalformedPayload)
	}
	return env, nil
}

// Route decodes body according to eventType.
// Returns a nil Notification for event types that don't notify anyone.
func Route(eventType tito.EventType, body []byte) (notification.Notification, error) {
	switch eventType {
	case tito.EventTypeRegistrationFinished:
		var reg tito.Registration
		if err := decode(body, &reg); err != nil {
			return nil, err
		}
		return orderFromRegistration(reg), nil
	case tito.EventTypeTicketCompleted:
		var ticket tito.Ticket
		if err := decode(body, &ticket); err != nil {
			return nil, err
		}
		return ticketFromPayload(ticket), nil
	default:
		return nil, nil
	}
}

func decode(body []byte, v any) error {
	if err := go_json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return nil
}

func orderFromRegistration(reg tito.Registration) *notification.Order {
	return &notification.Order{
		OrdererName:                 reg.Name,
		EventName:                   reg.Event.Title,
		OrderNumber:                 reg.Reference,
		AdminURL:                    reg.AdminURL(),
		Total:                       reg.Total,
		TicketsPurchasedDescription: describeLineItems(reg.LineItems),
	}
}

func ticketFromPayload(t tito.Ticket) *notification.Ticket {
	return &notification.Ticket{
		AttendeeName: t.Name,
		EventName:    t.Event.Title,
		TicketClass:  t.ReleaseTitle,
		TicketNumber: t.Reference,
		AdminURL:     t.AdminURL(),
	}
}

// describeLineItems renders "{qty} x {title} @ {total}" per line item, comma separated, in order.
func describeLineItems(items []tito.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, strconv.Itoa(item.Quantity)+" x "+item.Title+" @ "+item.Total.Currency())
	}
	return strings.Join(parts, ",")
}
