package domain

// Notification is the derived WhatsApp payload handed back to the
// caller after a sale is confirmed. It is never persisted and never
// sent by this system.
type Notification struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
}
