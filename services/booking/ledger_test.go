package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexbook/models"
)

func testLedger(slots *fakeSlotRepo, appts *fakeAppointmentRepo, providers *fakeProviderRepo) *DefaultLedger {
	return &DefaultLedger{
		Slots:        slots,
		Appointments: appts,
		Providers:    providers,
		Pricing:      PricingEngine{MinimumFee: 500},
		Currency:     "INR",
		Logger:       zap.NewNop(),
	}
}

func testProvider() models.Provider {
	return models.Provider{
		ID:                 "lawyer-1",
		BaseFee:            1500,
		ReferenceSlotPrice: 1000,
		Modes:              []string{models.ModeVideo, models.ModePhone, models.ModeInPerson},
	}
}

func testSlot() models.AvailabilitySlot {
	return models.AvailabilitySlot{
		ID:          "slot-1",
		ProviderID:  "lawyer-1",
		Date:        "2026-09-07",
		Start:       600, // 10:00
		Price:       1000,
		IsAvailable: true,
	}
}

func TestReserveCreatesPendingAppointment(t *testing.T) {
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	appt, err := ledger.Reserve(context.Background(), ReserveRequest{
		SlotID:     "slot-1",
		ClientID:   "client-1",
		Mode:       models.ModeVideo,
		MatterType: "property",
		Urgency:    models.UrgencyMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, appt.Status)
	assert.Equal(t, int64(1500), appt.Amount)
	assert.Equal(t, "slot-1", appt.SlotID)
	assert.Equal(t, "2026-09-07", appt.Date)

	slot, err := slots.GetByID(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)
}

func TestReserveUnknownSlot(t *testing.T) {
	ledger := testLedger(newFakeSlotRepo(), newFakeAppointmentRepo(), newFakeProviderRepo(testProvider()))

	_, err := ledger.Reserve(context.Background(), ReserveRequest{SlotID: "ghost", ClientID: "client-1"})
	assert.True(t, IsCode(err, CodeSlotNotFound))
}

func TestReserveTakenSlot(t *testing.T) {
	slot := testSlot()
	slot.IsAvailable = false
	ledger := testLedger(newFakeSlotRepo(slot), newFakeAppointmentRepo(), newFakeProviderRepo(testProvider()))

	_, err := ledger.Reserve(context.Background(), ReserveRequest{SlotID: "slot-1", ClientID: "client-1"})
	assert.True(t, IsCode(err, CodeSlotAlreadyBooked))
}

// Many clients race for the same slot; exactly one reservation must win and
// every loser must see slotAlreadyBooked.
func TestReserveAtMostOneWinner(t *testing.T) {
	const contenders = 32
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Reserve(context.Background(), ReserveRequest{
				SlotID:   "slot-1",
				ClientID: "client",
				Mode:     models.ModeVideo,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case IsCode(err, CodeSlotAlreadyBooked):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, contenders-1, conflicts)
}

func TestReserveIdempotencyReplay(t *testing.T) {
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	req := ReserveRequest{
		SlotID:         "slot-1",
		ClientID:       "client-1",
		Mode:           models.ModeVideo,
		IdempotencyKey: "key-1",
	}
	first, err := ledger.Reserve(context.Background(), req)
	require.NoError(t, err)

	// The retry maps onto the original appointment even though the slot is
	// now unavailable.
	second, err := ledger.Reserve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A different key races normally and loses.
	req.IdempotencyKey = "key-2"
	_, err = ledger.Reserve(context.Background(), req)
	assert.True(t, IsCode(err, CodeSlotAlreadyBooked))
}

// After the expiry sweep reclaims an unpaid reservation, a retry carrying the
// same session key must win the slot again with a fresh appointment instead of
// colliding with the cancelled one.
func TestReserveRetryAfterExpiry(t *testing.T) {
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	req := ReserveRequest{
		SlotID:         "slot-1",
		ClientID:       "client-1",
		Mode:           models.ModeVideo,
		IdempotencyKey: "key-1",
	}
	first, err := ledger.Reserve(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, ledger.Expire(context.Background(), first.ID))

	second, err := ledger.Reserve(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.StatusPendingPayment, second.Status)

	slot, err := slots.GetByID(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)

	// Replay still targets the live appointment, not the expired one.
	third, err := ledger.Reserve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, second.ID, third.ID)
}

func TestConfirmTransitions(t *testing.T) {
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	appt, err := ledger.Reserve(context.Background(), ReserveRequest{SlotID: "slot-1", ClientID: "client-1", Mode: models.ModeVideo})
	require.NoError(t, err)

	confirmed, err := ledger.Confirm(context.Background(), appt.ID, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, "pi_123", confirmed.PaymentRef)

	// A duplicate gateway callback returns the stored result, not an error.
	again, err := ledger.Confirm(context.Background(), appt.ID, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, again.Status)

	// Nothing leaves cancelled.
	_, err = ledger.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)
	_, err = ledger.Confirm(context.Background(), appt.ID, "pi_456")
	assert.True(t, IsCode(err, CodeInvalidTransition))
}

func TestCancelIsIdempotentAndFreesSlot(t *testing.T) {
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	appt, err := ledger.Reserve(context.Background(), ReserveRequest{SlotID: "slot-1", ClientID: "client-1", Mode: models.ModeVideo})
	require.NoError(t, err)

	first, err := ledger.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, first.Status)

	slot, err := slots.GetByID(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)

	second, err := ledger.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, second.Status)
}

func TestExpireOnlyReclaimsPending(t *testing.T) {
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	appt, err := ledger.Reserve(context.Background(), ReserveRequest{SlotID: "slot-1", ClientID: "client-1", Mode: models.ModeVideo})
	require.NoError(t, err)

	// Payment lands before the sweep fires; the appointment must survive.
	_, err = ledger.Confirm(context.Background(), appt.ID, "pi_123")
	require.NoError(t, err)
	require.NoError(t, ledger.Expire(context.Background(), appt.ID))

	got, err := ledger.GetAppointment(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	slot, err := slots.GetByID(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)
}

func TestExpireReclaimsUnpaidReservation(t *testing.T) {
	slots := newFakeSlotRepo(testSlot())
	appts := newFakeAppointmentRepo()
	ledger := testLedger(slots, appts, newFakeProviderRepo(testProvider()))

	appt, err := ledger.Reserve(context.Background(), ReserveRequest{SlotID: "slot-1", ClientID: "client-1", Mode: models.ModeVideo})
	require.NoError(t, err)

	require.NoError(t, ledger.Expire(context.Background(), appt.ID))

	got, err := ledger.GetAppointment(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	slot, err := slots.GetByID(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)

	// Sweeping an unknown appointment is a no-op.
	assert.NoError(t, ledger.Expire(context.Background(), "ghost"))
}

func TestUnknownAppointmentLookups(t *testing.T) {
	ledger := testLedger(newFakeSlotRepo(), newFakeAppointmentRepo(), newFakeProviderRepo(testProvider()))

	_, err := ledger.GetAppointment(context.Background(), "ghost")
	assert.True(t, IsCode(err, CodeAppointmentNotFound))

	_, err = ledger.Cancel(context.Background(), "ghost")
	assert.True(t, IsCode(err, CodeAppointmentNotFound))
}
