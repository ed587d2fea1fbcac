package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	providerRepo "lexbook/database/repository/provider"
	"lexbook/models"
	"lexbook/services/wizard"
)

// InitiateSession matches providers for the plan, opens a wizard state, and
// stores the session in Redis under a fresh uuid. The idempotency key for the
// eventual reservation is minted here, so client retries of the same session
// confirmation never create a duplicate appointment.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, plan models.ConsultationPlan, clientID string) (*models.BookingSession, error) {
	if err := validatePlan(plan); err != nil {
		return nil, NewBookingError(CodeValidationFailed, err.Error(), nil)
	}

	matched, err := s.Directory.Search(ctx, providerRepo.ProviderSearchCriteria{
		Query:          plan.Query,
		Specialization: plan.Specialization,
		Mode:           plan.Mode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to match providers: %w", err)
	}

	state := s.Flow.Start()
	state = s.Flow.UpdateData(state, models.WizardData{
		KeyMode: plan.Mode,
		KeyDate: plan.Date,
	})

	session := &models.BookingSession{
		SessionID:        uuid.New().String(),
		ClientID:         clientID,
		Plan:             plan,
		MatchedProviders: matched,
		Wizard:           state,
		IdempotencyKey:   uuid.New().String(),
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	s.Logger.Info("booking session initiated",
		zap.String("sessionId", session.SessionID),
		zap.String("clientId", clientID),
		zap.Int("matched", len(matched)))
	return session, nil
}

// SelectProvider freezes the chosen provider into the wizard data, queries the
// catalog for that provider's slots on the planned date, and advances past the
// lawyer step.
func (s *DefaultBookingSessionService) SelectProvider(ctx context.Context, sessionID, providerID string) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sessionHasProvider(session, providerID) {
		return nil, NewBookingError(CodeValidationFailed,
			fmt.Sprintf("provider %s is not in the matched providers list", providerID), nil)
	}

	slots, err := s.Catalog.GetSlots(ctx, providerID, session.Plan.Date)
	if err != nil {
		return nil, err
	}

	session.SelectedProvider = providerID
	session.Availability = slots
	session.Wizard = s.Flow.UpdateData(session.Wizard, models.WizardData{KeyProvider: providerID})
	// Stale schedule data from a previously selected provider must not leak
	// through the schedule gate.
	delete(session.Wizard.Data, KeySlot)

	next, err := s.Flow.Advance(session.Wizard)
	if err != nil {
		return nil, asValidationError(err)
	}
	session.Wizard = next

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectSlot freezes (slotId, date, start) into the wizard data and advances
// past the schedule step. The slot must come from the session's current
// availability view and still be flagged available there; the authoritative
// check happens later, at reservation time.
func (s *DefaultBookingSessionService) SelectSlot(ctx context.Context, sessionID, slotID string) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var chosen *models.AvailabilitySlot
	for i := range session.Availability {
		if session.Availability[i].ID == slotID {
			chosen = &session.Availability[i]
			break
		}
	}
	if chosen == nil {
		return nil, NewBookingError(CodeSlotNotFound, "slot is not part of the offered availability", nil)
	}
	if !chosen.IsAvailable {
		return nil, NewBookingError(CodeSlotAlreadyBooked, "slot is no longer available", nil)
	}

	session.Wizard = s.Flow.UpdateData(session.Wizard, models.WizardData{
		KeySlot:  chosen.ID,
		KeyDate:  chosen.Date,
		KeyStart: chosen.Start,
	})
	next, err := s.Flow.Advance(session.Wizard)
	if err != nil {
		return nil, asValidationError(err)
	}
	session.Wizard = next

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateDetails merges partial form data without moving the wizard.
func (s *DefaultBookingSessionService) UpdateDetails(ctx context.Context, sessionID string, partial models.WizardData) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Wizard = s.Flow.UpdateData(session.Wizard, partial)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Advance moves the wizard forward one gated step.
func (s *DefaultBookingSessionService) Advance(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := s.Flow.Advance(session.Wizard)
	if err != nil {
		return nil, asValidationError(err)
	}
	session.Wizard = next
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Retreat moves the wizard back one step; always permitted.
func (s *DefaultBookingSessionService) Retreat(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Wizard = s.Flow.Retreat(session.Wizard)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ConfirmBooking runs the final transition: full wizard validation, ledger
// reservation, payment, confirmation, notification. A slotAlreadyBooked from
// the ledger is the expected race outcome — the availability view is
// re-queried and returned so the client can pick another slot.
func (s *DefaultBookingSessionService) ConfirmBooking(ctx context.Context, sessionID string) (*models.BookingOutcome, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.Flow.Complete(session.Wizard); err != nil {
		return nil, asValidationError(err)
	}

	req := ReserveRequest{
		SlotID:         stringField(session.Wizard.Data, KeySlot),
		ClientID:       session.ClientID,
		Mode:           session.Plan.Mode,
		MatterType:     stringField(session.Wizard.Data, KeyMatter),
		Description:    stringField(session.Wizard.Data, KeyNotes),
		Urgency:        stringField(session.Wizard.Data, KeyUrgency),
		IdempotencyKey: session.IdempotencyKey,
	}

	appt, err := s.Ledger.Reserve(ctx, req)
	if IsCode(err, CodeSlotAlreadyBooked) || IsCode(err, CodeSlotNotFound) {
		return s.refreshAfterConflict(ctx, session)
	}
	if err != nil {
		return nil, err
	}

	if s.Expiry != nil {
		if schedErr := s.Expiry.ScheduleExpiry(appt.ID, s.RetryWindow); schedErr != nil {
			s.Logger.Error("failed to schedule expiry sweep",
				zap.String("appointmentId", appt.ID), zap.Error(schedErr))
		}
	}

	invoice, err := s.collectPayment(ctx, session, appt)
	if err != nil {
		// The appointment stays pending_payment inside the retry window; the
		// expiry sweep reclaims the slot if payment never lands.
		return nil, err
	}

	confirmed, err := s.Ledger.Confirm(ctx, appt.ID, invoice.PaymentID)
	if err != nil {
		return nil, err
	}

	s.notifyConfirmed(confirmed)

	if err := s.deleteSession(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to delete completed session",
			zap.String("sessionId", sessionID), zap.Error(err))
	}

	return &models.BookingOutcome{Appointment: confirmed, Invoice: invoice}, nil
}

// CancelSession discards an abandoned session. The ledger is untouched: if a
// reservation already committed, it expires through the normal sweep.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	return s.deleteSession(ctx, sessionID)
}

func (s *DefaultBookingSessionService) collectPayment(ctx context.Context, session *models.BookingSession, appt *models.Appointment) (*models.Invoice, error) {
	order, err := s.Payments.CreateOrder(ctx, models.PaymentRequest{
		AppointmentID: appt.ID,
		ClientID:      session.ClientID,
		Amount:        appt.Amount,
		Currency:      appt.Currency,
		Metadata:      map[string]string{"slotId": appt.SlotID},
	})
	if err != nil {
		return nil, err
	}
	return s.Payments.CollectPayment(ctx, order)
}

// refreshAfterConflict re-queries the catalog so the caller sees current
// availability, resets the wizard to the schedule step, and reports the
// conflict as an outcome rather than an error.
func (s *DefaultBookingSessionService) refreshAfterConflict(ctx context.Context, session *models.BookingSession) (*models.BookingOutcome, error) {
	slots, err := s.Catalog.GetSlots(ctx, session.SelectedProvider, session.Plan.Date)
	if err != nil {
		return nil, err
	}
	session.Availability = slots
	delete(session.Wizard.Data, KeySlot)
	if idx := s.Flow.StepIndex(StepSchedule); idx > 0 {
		session.Wizard.Current = idx
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	s.Logger.Info("reservation lost slot race; availability refreshed",
		zap.String("sessionId", session.SessionID))
	return &models.BookingOutcome{SlotTaken: true, Availability: slots}, nil
}

func (s *DefaultBookingSessionService) notifyConfirmed(appt *models.Appointment) {
	if s.Notifier == nil {
		return
	}
	scheduledAt := scheduleTime(appt.Date, appt.Start)
	evt := models.AppointmentConfirmedEvent{
		AppointmentID:   appt.ID,
		ClientContact:   appt.ClientID,
		ProviderContact: appt.ProviderID,
		ScheduledAt:     scheduledAt,
	}
	// Fire and forget: delivery failure never rolls back the booking.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Notifier.NotifyAppointmentConfirmed(ctx, evt); err != nil {
			s.Logger.Warn("confirmation notification failed",
				zap.String("appointmentId", evt.AppointmentID), zap.Error(err))
		}
	}()
}

// --- session persistence ---

func (s *DefaultBookingSessionService) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	if sessionID == "" {
		return nil, NewBookingError(CodeValidationFailed, "booking not initialized", nil)
	}
	data, err := s.Cache.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, NewBookingError(CodeValidationFailed, "booking session not found or expired", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *DefaultBookingSessionService) saveSession(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, sessionKey(session.SessionID), data, s.SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (s *DefaultBookingSessionService) deleteSession(ctx context.Context, sessionID string) error {
	if err := s.Cache.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "booking:session:" + sessionID
}

// --- helpers ---

func validatePlan(plan models.ConsultationPlan) error {
	if plan.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	switch plan.Mode {
	case models.ModeVideo, models.ModePhone, models.ModeInPerson:
	default:
		return fmt.Errorf("unsupported consultation mode %q", plan.Mode)
	}
	if plan.Date == "" {
		return fmt.Errorf("date is required")
	}
	day, err := time.Parse("2006-01-02", plan.Date)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	// Slot queries for past days are a caller error, not a catalog concern.
	today := time.Now().Format("2006-01-02")
	if day.Format("2006-01-02") < today {
		return fmt.Errorf("date must not be in the past")
	}
	return nil
}

func sessionHasProvider(session *models.BookingSession, providerID string) bool {
	for _, p := range session.MatchedProviders {
		if p.ID == providerID {
			return true
		}
	}
	return false
}

func asValidationError(err error) error {
	var ve *wizard.ValidationError
	if errors.As(err, &ve) {
		return NewBookingError(CodeValidationFailed, ve.Error(), err)
	}
	return err
}

func scheduleTime(date string, startMinutes int) time.Time {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return day.Add(time.Duration(startMinutes) * time.Minute)
}
