package notification

import "github.com/garrettladley/titohook/internal/tito"

// Kind selects the outbound queue for a notification.
type Kind string

const (
	KindOrder  Kind = "order"
	KindTicket Kind = "ticket"
)

func (k Kind) String() string { return string(k) }

// Notification is the routing result of a webhook: *Order or *Ticket.
// A nil Notification means the delivery produced nothing to publish.
type Notification interface {
	notification()
	Kind() Kind
	// Reference is the provider reference number, used for logging.
	Reference() string
}

// Order is published when a registration is finished.
// JSON field names follow the contract the downstream notifiers already consume.
type Order struct {
	OrdererName                 string      `json:"OrdererName"`
	EventName                   string      `json:"EventName"`
	OrderNumber                 string      `json:"OrderNumber"`
	AdminURL                    string      `json:"AdminUrl"`
	Total                       tito.Amount `json:"Total"`
	TicketsPurchasedDescription string      `json:"TicketsPurchasedDescription"`
}

func (*Order) notification()       {}
func (*Order) Kind() Kind          { return KindOrder }
func (o *Order) Reference() string { return o.OrderNumber }

// Ticket is published when an attendee completes a ticket.
type Ticket struct {
	AttendeeName string `json:"AttendeeName"`
	EventName    string `json:"EventName"`
	TicketClass  string `json:"TicketClass"`
	TicketNumber string `json:"TicketNumber"`
	AdminURL     string `json:"AdminUrl"`
}

func (*Ticket) notification()       {}
func (*Ticket) Kind() Kind          { return KindTicket }
func (t *Ticket) Reference() string { return t.TicketNumber }
