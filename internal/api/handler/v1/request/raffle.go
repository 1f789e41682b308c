package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRaffleRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Prize       string  `json:"prize" binding:"required"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price" binding:"required"`
	TicketCount int     `json:"ticket_count"`
	StartDate   string  `json:"start_date" binding:"required" format:"DD/MM/YYYY"`
	DrawDate    string  `json:"draw_date" binding:"required" format:"RFC3339"`
	Active      bool    `json:"active"`
}

func (req *CreateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Prize, validation.Required, validation.Length(2, 255)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&req.TicketCount, validation.Min(1), validation.Max(10000)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.DrawDate, validation.Required),
	)
}
