// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"
	"fmt"

	"lexbook/database"
	"lexbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no slot matches the given identifier.
var ErrNotFound = errors.New("slot not found")

type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.AvailabilitySlot) error
	GetByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error)
	// GetByProviderAndDate returns the provider's slots for a date, ascending
	// by start time. An empty result means "no slots", not an error.
	GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error)
	// MarkUnavailable flips isAvailable from true to false as a single
	// conditional update. It returns false when the slot was already taken
	// (or does not exist); no caller can observe the slot available between
	// the check and the flip.
	MarkUnavailable(ctx context.Context, slotID string) (bool, error)
	// MarkAvailable releases a slot back to the pool (cancellation, expiry,
	// or rollback of a failed reservation).
	MarkAvailable(ctx context.Context, slotID string) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	repo := &mongoSlotRepo{
		coll: database.DB().Collection("slots"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create slot indexes: %v\n", err)
	}
	return repo
}
