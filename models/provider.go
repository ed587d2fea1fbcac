package models

import "time"

// Consultation modes supported by providers.
const (
	ModeVideo    = "video"
	ModePhone    = "phone"
	ModeInPerson = "in_person"
)

type Profile struct {
	DisplayName  string  `bson:"displayName" json:"displayName"`
	Email        string  `bson:"email" json:"email,omitempty"`
	PhoneNumber  string  `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	Address      string  `bson:"address" json:"address,omitempty"`
	Rating       float64 `bson:"rating" json:"rating,omitempty"`
	ProfileImage string  `bson:"profileImage" json:"profileImage,omitempty"`
	FCMToken     string  `bson:"fcmToken" json:"-"`
}

// Provider is a lawyer or firm offering consultations. The booking core treats
// it as immutable; it is maintained by the provider directory.
type Provider struct {
	ID                 string    `bson:"id" json:"id"`
	Profile            Profile   `bson:"profile" json:"profile"`
	Specializations    []string  `bson:"specializations" json:"specializations"`       // e.g., "property", "family", "corporate"
	Modes              []string  `bson:"modes" json:"modes"`                           // supported consultation modes
	BaseFee            int64     `bson:"baseFee" json:"baseFee"`                       // base consultation price, minor units
	ReferenceSlotPrice int64     `bson:"referenceSlotPrice" json:"referenceSlotPrice"` // standard slot price; slots may deviate
	Verified           bool      `bson:"verified" json:"verified"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
}

// SupportsMode reports whether the provider offers the given consultation mode.
func (p *Provider) SupportsMode(mode string) bool {
	for _, m := range p.Modes {
		if m == mode {
			return true
		}
	}
	return false
}
