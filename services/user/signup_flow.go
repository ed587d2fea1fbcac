package user

import (
	"fmt"
	"strings"

	"lexbook/models"
	"lexbook/services/wizard"
)

// Signup flow wizard data keys.
const (
	KeyRole      = "role"
	KeyFirstName = "firstName"
	KeyLastName  = "lastName"
	KeyEmail     = "email"
	KeyPhone     = "phoneNumber"
	KeyPassword  = "password"
	KeyBarID     = "barCouncilId"
	KeyIDDoc     = "identityDoc"
	KeyBarDoc    = "barCertificate"
)

// NewSignupFlow builds the four-step signup wizard:
// role -> personal info -> identity -> documents. It is the second instance
// of the same machine that drives booking, with its own predicates.
func NewSignupFlow() *wizard.Machine {
	m, err := wizard.New(
		wizard.Step{Name: "role", Validate: validateRoleStep},
		wizard.Step{Name: "personal", Validate: validatePersonalStep},
		wizard.Step{Name: "identity", Validate: validateIdentityStep},
		wizard.Step{Name: "documents", Validate: validateDocumentsStep},
	)
	if err != nil {
		panic(err)
	}
	return m
}

func validateRoleStep(data models.WizardData) error {
	switch stringField(data, KeyRole) {
	case models.RoleClient, models.RoleLawyer:
		return nil
	default:
		return fmt.Errorf("choose a role: client or lawyer")
	}
}

func validatePersonalStep(data models.WizardData) error {
	if stringField(data, KeyFirstName) == "" || stringField(data, KeyLastName) == "" {
		return fmt.Errorf("first and last name are required")
	}
	email := stringField(data, KeyEmail)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email address is required")
	}
	if stringField(data, KeyPhone) == "" {
		return fmt.Errorf("a phone number is required")
	}
	return nil
}

func validateIdentityStep(data models.WizardData) error {
	if len(stringField(data, KeyPassword)) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if stringField(data, KeyRole) == models.RoleLawyer && stringField(data, KeyBarID) == "" {
		return fmt.Errorf("bar council ID is required for lawyers")
	}
	return nil
}

// A document step is valid once the required uploads are non-empty URLs; the
// upload itself is the storage collaborator's concern.
func validateDocumentsStep(data models.WizardData) error {
	if stringField(data, KeyIDDoc) == "" {
		return fmt.Errorf("an identity document upload is required")
	}
	if stringField(data, KeyRole) == models.RoleLawyer && stringField(data, KeyBarDoc) == "" {
		return fmt.Errorf("a bar certificate upload is required for lawyers")
	}
	return nil
}

func stringField(data models.WizardData, key string) string {
	v, _ := data[key].(string)
	return v
}
