package models

import "time"

// Appointment status machine:
//
//	pending_payment -> confirmed   (payment success)
//	pending_payment -> cancelled   (payment failure, timeout, or user cancel)
//	confirmed       -> cancelled   (explicit cancellation)
//
// No transition leaves cancelled. Appointments are never hard-deleted.
const (
	StatusPendingPayment = "pending_payment"
	StatusConfirmed      = "confirmed"
	StatusCancelled      = "cancelled"
)

// Urgency levels for a consultation request.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Appointment is a confirmed or pending booking record. At most one
// non-cancelled appointment may reference a given slot ID.
type Appointment struct {
	ID             string    `bson:"id" json:"id"`
	ProviderID     string    `bson:"providerId" json:"providerId"`
	ClientID       string    `bson:"clientId" json:"clientId"`
	SlotID         string    `bson:"slotId" json:"slotId"`
	Date           string    `bson:"date" json:"date"`   // "2006-01-02"
	Start          int       `bson:"start" json:"start"` // minutes from midnight
	Mode           string    `bson:"mode" json:"mode"`
	MatterType     string    `bson:"matterType" json:"matterType"` // e.g., "property_dispute", "contract_review"
	Description    string    `bson:"description" json:"description,omitempty"`
	Urgency        string    `bson:"urgency" json:"urgency"`
	Amount         int64     `bson:"amount" json:"amount"` // charged total, minor units
	Currency       string    `bson:"currency" json:"currency"`
	Status         string    `bson:"status" json:"status"`
	IdempotencyKey string    `bson:"idempotencyKey,omitempty" json:"-"`
	PaymentRef     string    `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentConfirmedEvent is the fire-and-forget payload emitted to the
// notification service after a successful confirmation.
type AppointmentConfirmedEvent struct {
	AppointmentID   string    `json:"appointmentId"`
	ClientContact   string    `json:"clientContact"`
	ProviderContact string    `json:"providerContact"`
	ScheduledAt     time.Time `json:"scheduledAt"`
}
