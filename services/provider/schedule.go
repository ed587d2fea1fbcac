package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	slotRepo "lexbook/database/repository/slot"
	"lexbook/models"
)

// SlotOffer is one bookable unit a provider publishes for a day.
type SlotOffer struct {
	Start int   `json:"start" binding:"required"` // minutes from midnight
	Price int64 `json:"price" binding:"required"` // minor units
}

// ScheduleService lets providers publish their bookable slots. Published
// slots enter the catalog available; the booking ledger is their only writer
// afterwards.
type ScheduleService interface {
	PublishSchedule(ctx context.Context, providerID, date string, offers []SlotOffer) ([]models.AvailabilitySlot, error)
}

// DefaultScheduleService implements ScheduleService over the slot and
// provider repositories.
type DefaultScheduleService struct {
	Providers DirectoryService
	Slots     slotRepo.SlotRepository
}

func (s *DefaultScheduleService) PublishSchedule(ctx context.Context, providerID, date string, offers []SlotOffer) ([]models.AvailabilitySlot, error) {
	if _, err := s.Providers.GetByID(ctx, providerID); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}
	if len(offers) == 0 {
		return nil, fmt.Errorf("a schedule needs at least one slot")
	}

	seen := make(map[int]bool, len(offers))
	slots := make([]models.AvailabilitySlot, 0, len(offers))
	for _, offer := range offers {
		if offer.Start < 0 || offer.Start >= 24*60 {
			return nil, fmt.Errorf("slot start %d is outside the day", offer.Start)
		}
		if seen[offer.Start] {
			return nil, fmt.Errorf("duplicate slot start %d", offer.Start)
		}
		seen[offer.Start] = true
		slots = append(slots, models.AvailabilitySlot{
			ID:          uuid.New().String(),
			ProviderID:  providerID,
			Date:        date,
			Start:       offer.Start,
			Price:       offer.Price,
			IsAvailable: true,
		})
	}

	if err := s.Slots.CreateMany(ctx, slots); err != nil {
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}
	return slots, nil
}
