package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbook/models"
)

func TestFixtureCatalogSortsByStart(t *testing.T) {
	catalog := NewFixtureCatalog()
	catalog.Seed("lawyer-1", "2026-09-07", []models.AvailabilitySlot{
		{ID: "b", ProviderID: "lawyer-1", Date: "2026-09-07", Start: 840, IsAvailable: true},
		{ID: "a", ProviderID: "lawyer-1", Date: "2026-09-07", Start: 600, IsAvailable: true},
		{ID: "c", ProviderID: "lawyer-1", Date: "2026-09-07", Start: 1020, IsAvailable: true},
	})

	slots, err := catalog.GetSlots(context.Background(), "lawyer-1", "2026-09-07")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{slots[0].ID, slots[1].ID, slots[2].ID})

	// A day with no seed is an empty answer, not an error.
	empty, err := catalog.GetSlots(context.Background(), "lawyer-1", "2026-09-08")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// The catalog view over the ledger's slot store must reflect a reservation:
// the taken slot stays listed but flips to unavailable.
func TestLedgerCatalogReflectsReservations(t *testing.T) {
	slots := newFakeSlotRepo(
		models.AvailabilitySlot{ID: "s1", ProviderID: "lawyer-1", Date: "2026-09-07", Start: 600, Price: 1000, IsAvailable: true},
		models.AvailabilitySlot{ID: "s2", ProviderID: "lawyer-1", Date: "2026-09-07", Start: 840, Price: 1000, IsAvailable: true},
	)
	ledger := testLedger(slots, newFakeAppointmentRepo(), newFakeProviderRepo(testProvider()))
	catalog := &LedgerCatalog{Slots: slots}

	_, err := ledger.Reserve(context.Background(), ReserveRequest{SlotID: "s1", ClientID: "client-1", Mode: models.ModeVideo})
	require.NoError(t, err)

	view, err := catalog.GetSlots(context.Background(), "lawyer-1", "2026-09-07")
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, "s1", view[0].ID)
	assert.False(t, view[0].IsAvailable)
	assert.True(t, view[1].IsAvailable)
}
