package models

import "time"

// User roles accepted at signup.
const (
	RoleClient = "client"
	RoleLawyer = "lawyer"
)

type User struct {
	ID           string    `bson:"id" json:"id"`
	Role         string    `bson:"role" json:"role"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	Email        string    `bson:"email" json:"email"`
	PhoneNumber  string    `bson:"phoneNumber" json:"phoneNumber"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	IdentityDoc  string    `bson:"identityDoc,omitempty" json:"identityDoc,omitempty"` // upload URL
	BarCouncilID string    `bson:"barCouncilId,omitempty" json:"barCouncilId,omitempty"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SignupSession is the Redis-backed state of the multi-step signup flow. It is
// the second instance of the wizard machine: role -> personal info -> identity
// -> documents.
type SignupSession struct {
	SessionID string      `json:"sessionId"`
	Wizard    WizardState `json:"wizard"`
}
