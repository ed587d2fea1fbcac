// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lexbook/database"
	"lexbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no appointment matches the given identifier.
var ErrNotFound = errors.New("appointment not found")

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	// GetByIdempotencyKey returns the live (pending_payment or confirmed)
	// appointment created by a previous reservation attempt carrying the
	// same client-generated key. Cancelled appointments release their key,
	// so ErrNotFound means a fresh reservation may proceed.
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Appointment, error)
	// UpdateStatus transitions an appointment's status conditionally: the
	// update applies only while the current status is one of `from`. It
	// reports whether a document was modified, so races between payment
	// confirmation, cancellation, and the expiry sweep resolve to one winner.
	UpdateStatus(ctx context.Context, appointmentID string, from []string, to, paymentRef string) (bool, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error)
	ListByProviderAndDate(ctx context.Context, providerID, date string) ([]models.Appointment, error)
	// ListPendingBefore returns pending_payment appointments created before
	// the cutoff. The expiry sweep uses it to reclaim abandoned reservations.
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Appointment, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	repo := &mongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create appointment indexes: %v\n", err)
	}
	return repo
}
