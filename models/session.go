package models

// ConsultationPlan is what the client asks for when a booking session starts.
type ConsultationPlan struct {
	Specialization string `json:"specialization" binding:"required"`
	Mode           string `json:"mode" binding:"required"`
	Date           string `json:"date" binding:"required"` // "2006-01-02"
	Query          string `json:"query,omitempty"`
}

// BookingSession holds context between provider matching and final
// confirmation. It lives in Redis under a uuid key with a TTL and is discarded
// on completion or abandonment; it is never the source of truth for slot
// availability.
type BookingSession struct {
	SessionID        string             `json:"sessionId"`
	ClientID         string             `json:"clientId"`
	Plan             ConsultationPlan   `json:"plan"`
	MatchedProviders []Provider         `json:"matchedProviders"`
	SelectedProvider string             `json:"selectedProviderId,omitempty"`
	Availability     []AvailabilitySlot `json:"availability,omitempty"`
	Wizard           WizardState        `json:"wizard"`
	IdempotencyKey   string             `json:"idempotencyKey"`
}

// BookingOutcome is the result of a confirmation attempt. Exactly one of
// Appointment or SlotTaken is meaningful: when the slot was lost to a
// concurrent reservation, SlotTaken is true and Availability carries the
// re-queried, current slot view so the client can pick another.
type BookingOutcome struct {
	Appointment  *Appointment       `json:"appointment,omitempty"`
	Invoice      *Invoice           `json:"invoice,omitempty"`
	SlotTaken    bool               `json:"slotTaken,omitempty"`
	Availability []AvailabilitySlot `json:"availability,omitempty"`
}
