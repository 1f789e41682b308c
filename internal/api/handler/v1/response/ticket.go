package response

import "github.com/jrmz14/proyecto-rifas/internal/domain"

// PurchaseFailure tells the buyer exactly which number sank the batch
// and why. State is only set when the number exists but is no longer
// available.
type PurchaseFailure struct {
	Number string `json:"number"`
	Reason string `json:"reason"`
	State  string `json:"state,omitempty"`
}

type TicketStatusesResponse struct {
	Numbers []domain.TicketStatus `json:"numbers"`
}

type ConfirmSaleResponse struct {
	Ticket       domain.Ticket        `json:"ticket"`
	Notification *domain.Notification `json:"notification,omitempty"`
}
