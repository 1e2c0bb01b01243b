package tito

import "fmt"

// Provider is the dedupe namespace for every Tito delivery.
const Provider = "Tito"

const adminBaseURL = "https://ti.to"

type EventType string

const (
	EventTypeRegistrationStarted    EventType = "registration.started"
	EventTypeRegistrationFilling    EventType = "registration.filling"
	EventTypeRegistrationFinished   EventType = "registration.finished"
	EventTypeRegistrationCompleted  EventType = "registration.completed"
	EventTypeRegistrationUpdated    EventType = "registration.updated"
	EventTypeRegistrationMarkedPaid EventType = "registration.marked_as_paid"
	EventTypeRegistrationCancelled  EventType = "registration.cancelled"
	EventTypeTicketCreated          EventType = "ticket.created"
	EventTypeTicketUpdated          EventType = "ticket.updated"
	EventTypeTicketCompleted        EventType = "ticket.completed"
	EventTypeTicketReassigned       EventType = "ticket.reassigned"
	EventTypeTicketUnsnoozed        EventType = "ticket.unsnoozed"
	EventTypeTicketUnvoided         EventType = "ticket.unvoided"
	EventTypeTicketVoided           EventType = "ticket.voided"
	EventTypeCheckinCreated         EventType = "checkin.created"
)

func (t EventType) String() string { return string(t) }

// Envelope holds the fields shared by every webhook body.
// Slug is the provider's id for the delivered resource and keys deduplication.
type Envelope struct {
	Slug string `json:"slug"`
}

type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AccountSlug string `json:"account_slug"`
	Slug        string `json:"slug"`
}

// Path is the "{account}/{event}" pair Tito uses in every admin URL.
// It is empty unless both slugs are present.
func (e Event) Path() string {
	if e.AccountSlug == "" || e.Slug == "" {
		return ""
	}
	return e.AccountSlug + "/" + e.Slug
}

// adminURL returns "" when the payload lacks the pieces for a working link.
func adminURL(event Event, kind, slug string) string {
	path := event.Path()
	if path == "" || slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/admin/%s/%s", adminBaseURL, path, kind, slug)
}

type LineItem struct {
	ReleaseSlug string `json:"release_slug"`
	Title       string `json:"title"`
	Quantity    int    `json:"quantity"`
	Total       Amount `json:"total"`
}

// Registration is the body of registration.* webhooks.
type Registration struct {
	Event     Event      `json:"event"`
	Name      string     `json:"name"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Slug      string     `json:"slug"`
	Reference string     `json:"reference"`
	Paid      bool       `json:"paid"`
	Total     Amount     `json:"total"`
	LineItems []LineItem `json:"line_items"`
	Custom    string     `json:"custom"`
}

func (r Registration) AdminURL() string {
	return adminURL(r.Event, "registrations", r.Slug)
}

// Ticket is the body of ticket.* webhooks.
type Ticket struct {
	Event        Event             `json:"event"`
	Name         string            `json:"name"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	Slug         string            `json:"slug"`
	Reference    string            `json:"reference"`
	ReleaseTitle string            `json:"release_title"`
	ReleaseSlug  string            `json:"release_slug"`
	StateName    string            `json:"state_name"`
	AdminURLRaw  string            `json:"admin_url"`
	Responses    map[string]string `json:"responses"`
	Custom       string            `json:"custom"`
}

// AdminURL prefers the link Tito sends and falls back to the documented path.
func (t Ticket) AdminURL() string {
	if t.AdminURLRaw != "" {
		return t.AdminURLRaw
	}
	return adminURL(t.Event, "tickets", t.Slug)
}
