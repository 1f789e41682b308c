package domain

import "time"

type Raffle struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Prize       string    `json:"prize"`
	ImageURL    string    `json:"image_url"`
	Price       float64   `json:"price"`
	TicketCount int       `json:"ticket_count"`
	StartDate   time.Time `json:"start_date"`
	DrawDate    time.Time `json:"draw_date"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NumberWidth returns the zero-padding width for ticket numbers,
// derived from the total ticket count: "00".."99" for 100 tickets,
// "000".."999" for 1000, "0000".."9999" above that.
func (r Raffle) NumberWidth() int {
	switch {
	case r.TicketCount <= 100:
		return 2
	case r.TicketCount <= 1000:
		return 3
	default:
		return 4
	}
}
