package booking

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"lexbook/models"
	"lexbook/services/notification"
	"lexbook/services/provider"
	"lexbook/services/wizard"
)

// BookingSessionService drives the stateful booking flow: match providers,
// gate progression through the wizard, and hand the final confirmation to the
// ledger and the payment collaborator.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, plan models.ConsultationPlan, clientID string) (*models.BookingSession, error)
	SelectProvider(ctx context.Context, sessionID, providerID string) (*models.BookingSession, error)
	SelectSlot(ctx context.Context, sessionID, slotID string) (*models.BookingSession, error)
	UpdateDetails(ctx context.Context, sessionID string, partial models.WizardData) (*models.BookingSession, error)
	Advance(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Retreat(ctx context.Context, sessionID string) (*models.BookingSession, error)
	ConfirmBooking(ctx context.Context, sessionID string) (*models.BookingOutcome, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// ExpiryScheduler schedules the pending_payment reclamation sweep for an
// appointment. Implemented over asynq in the cron package.
type ExpiryScheduler interface {
	ScheduleExpiry(appointmentID string, after time.Duration) error
}

// DefaultBookingSessionService implements BookingSessionService with sessions
// stored as JSON blobs in Redis under a uuid key.
type DefaultBookingSessionService struct {
	Directory   provider.DirectoryService
	Catalog     AvailabilitySource
	Ledger      Ledger
	Payments    PaymentProcessor
	Notifier    notification.Notifier
	Expiry      ExpiryScheduler
	Cache       *redis.Client
	SessionTTL  time.Duration
	RetryWindow time.Duration
	Flow        *wizard.Machine
	Logger      *zap.Logger
}
