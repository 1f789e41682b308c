package domain

import "time"

type TicketState string

const (
	TicketAvailable TicketState = "available"
	TicketReserved  TicketState = "reserved"
	TicketSold      TicketState = "sold"
)

type Ticket struct {
	ID       uint        `json:"id"`
	RaffleID uint        `json:"raffle_id"`
	Number   string      `json:"number"`
	State    TicketState `json:"state"`

	Buyer   Buyer   `json:"buyer"`
	Payment Payment `json:"payment"`

	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
}

// Buyer identifies who reserved a ticket. All fields are empty while
// the ticket is available.
type Buyer struct {
	NationalID string `json:"national_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
}

// Payment holds the claimed transfer metadata. The system records it
// as-is and never verifies the transfer itself.
type Payment struct {
	Bank          string `json:"bank"`
	Reference     string `json:"reference"`
	TransferImage string `json:"transfer_image"`
}

// TicketStatus is the lightweight {number, state} pair served by the
// status and search endpoints.
type TicketStatus struct {
	Number string      `json:"number"`
	State  TicketState `json:"state"`
}
