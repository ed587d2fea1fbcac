package models

import "time"

// Invoice statuses.
const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
	InvoiceFailed  = "failed"
)

// PaymentRequest is handed to the payment collaborator after a successful
// reservation. Amount is in minor units.
type PaymentRequest struct {
	AppointmentID string            `json:"appointmentId"`
	ClientID      string            `json:"clientId"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Invoice is the payment collaborator's record of an order and its outcome.
type Invoice struct {
	InvoiceID string    `json:"invoiceId"`
	PaymentID string    `json:"paymentId,omitempty"` // gateway reference, e.g. a payment intent id
	ClientID  string    `json:"clientId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
