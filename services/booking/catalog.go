package booking

import (
	"context"
	"sort"
	"sync"

	slotRepo "lexbook/database/repository/slot"
	"lexbook/models"
)

// AvailabilitySource is the slot catalog capability: a fresh, current view of
// a provider's offered slots for a date. Implementations are chosen at
// construction time — never by runtime branching inside business logic. Each
// query is restartable; callers re-query rather than mutate local copies on
// conflict. The "date not in the past" policy belongs to callers.
type AvailabilitySource interface {
	GetSlots(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error)
}

// LedgerCatalog serves slots straight from the booking ledger's slot store,
// so the isAvailable flags it returns are the authoritative ones.
type LedgerCatalog struct {
	Slots slotRepo.SlotRepository
}

func (c *LedgerCatalog) GetSlots(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error) {
	slots, err := c.Slots.GetByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, NewBookingError(CodeCatalogUnavailable, "availability source unreachable", err)
	}
	// Empty is a valid answer: the provider offers nothing that day.
	return slots, nil
}

// FixtureCatalog is the in-memory availability source used by development
// seeds and tests. Safe for concurrent use.
type FixtureCatalog struct {
	mu    sync.RWMutex
	slots map[string][]models.AvailabilitySlot // key: providerID|date
}

func NewFixtureCatalog() *FixtureCatalog {
	return &FixtureCatalog{slots: make(map[string][]models.AvailabilitySlot)}
}

// Seed registers slots for a (provider, date) pair, replacing any prior seed.
func (c *FixtureCatalog) Seed(providerID, date string, slots []models.AvailabilitySlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]models.AvailabilitySlot, len(slots))
	copy(copied, slots)
	c.slots[providerID+"|"+date] = copied
}

func (c *FixtureCatalog) GetSlots(_ context.Context, providerID, date string) ([]models.AvailabilitySlot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seeded := c.slots[providerID+"|"+date]
	out := make([]models.AvailabilitySlot, len(seeded))
	copy(out, seeded)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}
