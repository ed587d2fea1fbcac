package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appointmentRepo "lexbook/database/repository/appointment"
	providerRepo "lexbook/database/repository/provider"
	slotRepo "lexbook/database/repository/slot"
	"lexbook/models"
)

// ReserveRequest is a reservation attempt against the ledger. IdempotencyKey
// is client-generated; a retried request with the same key maps onto the
// appointment the first attempt created instead of racing for the slot again.
type ReserveRequest struct {
	SlotID         string
	ClientID       string
	Mode           string
	MatterType     string
	Description    string
	Urgency        string
	IdempotencyKey string
}

// Ledger is the authoritative store of appointments and the single writer of
// slot availability. Reserve is the only operation in the system that needs a
// serializable guarantee; everything else is read-only or local.
type Ledger interface {
	Reserve(ctx context.Context, req ReserveRequest) (*models.Appointment, error)
	Confirm(ctx context.Context, appointmentID, paymentRef string) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) (*models.Appointment, error)
	// Expire cancels an appointment only if it is still pending_payment; the
	// scheduled sweep calls it after the payment retry window elapses.
	Expire(ctx context.Context, appointmentID string) error
	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error)
}

// DefaultLedger implements Ledger over the slot and appointment repositories.
type DefaultLedger struct {
	Slots        slotRepo.SlotRepository
	Appointments appointmentRepo.AppointmentRepository
	Providers    providerRepo.ProviderRepository
	Pricing      PricingEngine
	Currency     string
	Logger       *zap.Logger
}

// Reserve converts an available slot into a pending_payment appointment.
//
//  1. idempotency replay check
//  2. slot lookup -> slotNotFound
//  3. conditional flip of isAvailable (the atomic at-most-one-booking step)
//  4. price computation and appointment insert; insert failure rolls the
//     flip back so no slot is stranded unavailable without an appointment
func (l *DefaultLedger) Reserve(ctx context.Context, req ReserveRequest) (*models.Appointment, error) {
	if req.IdempotencyKey != "" {
		existing, err := l.Appointments.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil {
			l.Logger.Info("reserve replayed via idempotency key",
				zap.String("appointmentId", existing.ID),
				zap.String("clientId", req.ClientID))
			return existing, nil
		}
		if err != nil && !errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, NewBookingError(CodeLedgerUnreachable, "idempotency lookup failed", err)
		}
	}

	slot, err := l.Slots.GetByID(ctx, req.SlotID)
	if errors.Is(err, slotRepo.ErrNotFound) {
		return nil, NewBookingError(CodeSlotNotFound, fmt.Sprintf("slot %s does not exist", req.SlotID), nil)
	}
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "slot lookup failed", err)
	}

	provider, err := l.Providers.GetByID(ctx, slot.ProviderID)
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "provider lookup failed", err)
	}

	reserved, err := l.Slots.MarkUnavailable(ctx, req.SlotID)
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "slot reservation failed", err)
	}
	if !reserved {
		return nil, NewBookingError(CodeSlotAlreadyBooked,
			fmt.Sprintf("slot %s is no longer available", req.SlotID), nil)
	}

	amount := l.Pricing.ComputeTotal(provider.BaseFee, ModeAdjustment(req.Mode), SlotPriceDelta(slot, provider))

	now := time.Now()
	appt := &models.Appointment{
		ID:             uuid.New().String(),
		ProviderID:     slot.ProviderID,
		ClientID:       req.ClientID,
		SlotID:         slot.ID,
		Date:           slot.Date,
		Start:          slot.Start,
		Mode:           req.Mode,
		MatterType:     req.MatterType,
		Description:    req.Description,
		Urgency:        req.Urgency,
		Amount:         amount,
		Currency:       l.Currency,
		Status:         models.StatusPendingPayment,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := l.Appointments.Create(ctx, appt); err != nil {
		if rbErr := l.Slots.MarkAvailable(ctx, req.SlotID); rbErr != nil {
			l.Logger.Error("failed to release slot after appointment insert failure",
				zap.String("slotId", req.SlotID), zap.Error(rbErr))
		}
		return nil, NewBookingError(CodeLedgerUnreachable, "failed to record appointment", err)
	}

	l.Logger.Info("slot reserved",
		zap.String("appointmentId", appt.ID),
		zap.String("slotId", slot.ID),
		zap.String("providerId", slot.ProviderID),
		zap.Int64("amount", amount))
	return appt, nil
}

// Confirm transitions pending_payment -> confirmed once the payment
// collaborator reports success.
func (l *DefaultLedger) Confirm(ctx context.Context, appointmentID, paymentRef string) (*models.Appointment, error) {
	ok, err := l.Appointments.UpdateStatus(ctx, appointmentID,
		[]string{models.StatusPendingPayment}, models.StatusConfirmed, paymentRef)
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "confirmation failed", err)
	}
	if !ok {
		appt, getErr := l.Appointments.GetByID(ctx, appointmentID)
		if getErr != nil {
			return nil, NewBookingError(CodeLedgerUnreachable, "confirmation failed", getErr)
		}
		if appt.Status == models.StatusConfirmed {
			// Duplicate confirmation callback; the ledger already holds the result.
			return appt, nil
		}
		return nil, NewBookingError(CodeInvalidTransition,
			fmt.Sprintf("cannot confirm appointment in status %s", appt.Status), nil)
	}
	return l.Appointments.GetByID(ctx, appointmentID)
}

// Cancel frees the slot and marks the appointment cancelled. Cancelling twice
// is a no-op returning the already-cancelled appointment: UI retries race and
// must not see an error.
func (l *DefaultLedger) Cancel(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := l.Appointments.GetByID(ctx, appointmentID)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, NewBookingError(CodeAppointmentNotFound, fmt.Sprintf("appointment %s does not exist", appointmentID), nil)
	}
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "appointment lookup failed", err)
	}
	if appt.Status == models.StatusCancelled {
		return appt, nil
	}

	ok, err := l.Appointments.UpdateStatus(ctx, appointmentID,
		[]string{models.StatusPendingPayment, models.StatusConfirmed}, models.StatusCancelled, "")
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "cancellation failed", err)
	}
	if ok {
		if err := l.Slots.MarkAvailable(ctx, appt.SlotID); err != nil {
			l.Logger.Error("failed to release slot on cancellation",
				zap.String("slotId", appt.SlotID), zap.Error(err))
		}
		l.Logger.Info("appointment cancelled",
			zap.String("appointmentId", appointmentID), zap.String("slotId", appt.SlotID))
	}
	return l.Appointments.GetByID(ctx, appointmentID)
}

// Expire is the sweep entry point: it cancels only while the appointment is
// still pending_payment, so a payment that landed meanwhile wins the race.
func (l *DefaultLedger) Expire(ctx context.Context, appointmentID string) error {
	appt, err := l.Appointments.GetByID(ctx, appointmentID)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("expiry lookup failed: %w", err)
	}

	ok, err := l.Appointments.UpdateStatus(ctx, appointmentID,
		[]string{models.StatusPendingPayment}, models.StatusCancelled, "")
	if err != nil {
		return fmt.Errorf("expiry transition failed: %w", err)
	}
	if !ok {
		// Confirmed or already cancelled meanwhile; nothing to reclaim.
		return nil
	}
	if err := l.Slots.MarkAvailable(ctx, appt.SlotID); err != nil {
		return fmt.Errorf("failed to release slot %s on expiry: %w", appt.SlotID, err)
	}
	l.Logger.Info("pending appointment expired",
		zap.String("appointmentId", appointmentID), zap.String("slotId", appt.SlotID))
	return nil
}

func (l *DefaultLedger) GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := l.Appointments.GetByID(ctx, appointmentID)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, NewBookingError(CodeAppointmentNotFound, fmt.Sprintf("appointment %s does not exist", appointmentID), nil)
	}
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "appointment lookup failed", err)
	}
	return appt, nil
}

func (l *DefaultLedger) ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	appts, err := l.Appointments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, NewBookingError(CodeLedgerUnreachable, "history lookup failed", err)
	}
	return appts, nil
}
