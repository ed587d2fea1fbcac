package booking

import (
	"fmt"

	"lexbook/models"
	"lexbook/services/wizard"
)

// Booking flow wizard data keys. Step predicates only read fields their own
// or earlier steps collect, so gating at step k is decidable from data
// gathered through step k.
const (
	KeyMode      = "mode"
	KeyProvider  = "providerId"
	KeySlot      = "slotId"
	KeyDate      = "date"
	KeyStart     = "start"
	KeyMatter    = "matterType"
	KeyUrgency   = "urgency"
	KeyNotes     = "description"
	KeyAgreement = "acceptTerms"
)

// Booking flow step names, in order.
const (
	StepLawyer   = "lawyer"
	StepSchedule = "schedule"
	StepDetails  = "details"
	StepPayment  = "payment"
)

// NewBookingFlow builds the four-step consultation booking wizard:
// lawyer -> schedule -> details -> payment.
func NewBookingFlow() *wizard.Machine {
	m, err := wizard.New(
		wizard.Step{Name: StepLawyer, Validate: validateLawyerStep},
		wizard.Step{Name: StepSchedule, Validate: validateScheduleStep},
		wizard.Step{Name: StepDetails, Validate: validateDetailsStep},
		wizard.Step{Name: StepPayment, Validate: validatePaymentStep},
	)
	if err != nil {
		// The flow definition is static; a bad definition is a programming error.
		panic(err)
	}
	return m
}

func validateLawyerStep(data models.WizardData) error {
	if stringField(data, KeyProvider) == "" {
		return fmt.Errorf("select a lawyer to continue")
	}
	return nil
}

func validateScheduleStep(data models.WizardData) error {
	if stringField(data, KeySlot) == "" {
		return fmt.Errorf("select a time slot to continue")
	}
	if stringField(data, KeyDate) == "" {
		return fmt.Errorf("the selected slot has no date")
	}
	return nil
}

func validateDetailsStep(data models.WizardData) error {
	if stringField(data, KeyMatter) == "" {
		return fmt.Errorf("describe the type of legal matter")
	}
	switch stringField(data, KeyUrgency) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
		return nil
	default:
		return fmt.Errorf("urgency must be low, medium, or high")
	}
}

func validatePaymentStep(data models.WizardData) error {
	if ok, _ := data[KeyAgreement].(bool); !ok {
		return fmt.Errorf("accept the consultation terms to continue")
	}
	return nil
}

// stringField reads a string value from wizard data, tolerating absence.
func stringField(data models.WizardData, key string) string {
	v, _ := data[key].(string)
	return v
}
