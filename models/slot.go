package models

// AvailabilitySlot is a single bookable unit offered by a provider on a given
// date. Start is minutes from midnight (e.g., 540 for 9:00 AM). The
// IsAvailable flag is owned by the booking ledger: it flips to false exactly
// once, at reservation time, and the conditional update that flips it is the
// at-most-one-booking guard. Clients never mutate it locally; they re-fetch.
type AvailabilitySlot struct {
	ID          string `bson:"id" json:"id"`
	ProviderID  string `bson:"providerId" json:"providerId"`
	Date        string `bson:"date" json:"date"` // "2006-01-02"
	Start       int    `bson:"start" json:"start"`
	Price       int64  `bson:"price" json:"price"` // minor units; may differ from the provider's reference price
	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
}
