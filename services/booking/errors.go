package booking

import (
	"errors"
	"fmt"
)

// Stable error codes for the booking core. SlotAlreadyBooked is an expected
// race outcome, not a bug: the orchestrator resolves it by re-querying the
// catalog instead of surfacing a raw error.
const (
	CodeCatalogUnavailable  = "catalogUnavailable"
	CodeSlotNotFound        = "slotNotFound"
	CodeSlotAlreadyBooked   = "slotAlreadyBooked"
	CodeAppointmentNotFound = "appointmentNotFound"
	CodeValidationFailed    = "validationFailed"
	CodePaymentFailed       = "paymentFailed"
	CodeLedgerUnreachable   = "ledgerUnreachable"
	CodeInvalidTransition   = "invalidTransition"
)

type BookingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

// NewBookingError wraps cause (which may be nil) under a stable code.
func NewBookingError(code, message string, cause error) error {
	return &BookingError{Code: code, Message: message, Err: cause}
}

// ErrCode extracts the booking error code from err, or "" when err is not a
// BookingError.
func ErrCode(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsCode reports whether err carries the given booking error code.
func IsCode(err error, code string) bool {
	return ErrCode(err) == code
}
