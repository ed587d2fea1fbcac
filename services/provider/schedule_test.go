package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	providerRepo "lexbook/database/repository/provider"
	"lexbook/models"
)

type fakeDirectory struct {
	known map[string]bool
}

func (d *fakeDirectory) Search(_ context.Context, _ providerRepo.ProviderSearchCriteria) ([]models.Provider, error) {
	return nil, nil
}

func (d *fakeDirectory) GetByID(_ context.Context, id string) (*models.Provider, error) {
	if !d.known[id] {
		return nil, providerRepo.ErrNotFound
	}
	return &models.Provider{ID: id}, nil
}

type fakeSlotStore struct {
	created []models.AvailabilitySlot
}

func (s *fakeSlotStore) CreateMany(_ context.Context, slots []models.AvailabilitySlot) error {
	s.created = append(s.created, slots...)
	return nil
}

func (s *fakeSlotStore) GetByID(_ context.Context, _ string) (*models.AvailabilitySlot, error) {
	return nil, nil
}

func (s *fakeSlotStore) GetByProviderAndDate(_ context.Context, _, _ string) ([]models.AvailabilitySlot, error) {
	return nil, nil
}

func (s *fakeSlotStore) MarkUnavailable(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (s *fakeSlotStore) MarkAvailable(_ context.Context, _ string) error {
	return nil
}

func TestPublishSchedule(t *testing.T) {
	store := &fakeSlotStore{}
	svc := &DefaultScheduleService{
		Providers: &fakeDirectory{known: map[string]bool{"lawyer-1": true}},
		Slots:     store,
	}

	slots, err := svc.PublishSchedule(context.Background(), "lawyer-1", "2026-09-07", []SlotOffer{
		{Start: 600, Price: 1000},
		{Start: 840, Price: 1300},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Len(t, store.created, 2)
	for _, s := range slots {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "lawyer-1", s.ProviderID)
		assert.Equal(t, "2026-09-07", s.Date)
		assert.True(t, s.IsAvailable)
	}
}

func TestPublishScheduleRejectsBadInput(t *testing.T) {
	svc := &DefaultScheduleService{
		Providers: &fakeDirectory{known: map[string]bool{"lawyer-1": true}},
		Slots:     &fakeSlotStore{},
	}
	ctx := context.Background()

	_, err := svc.PublishSchedule(ctx, "stranger", "2026-09-07", []SlotOffer{{Start: 600, Price: 1000}})
	assert.Error(t, err)

	_, err = svc.PublishSchedule(ctx, "lawyer-1", "07-09-2026", []SlotOffer{{Start: 600, Price: 1000}})
	assert.Error(t, err)

	_, err = svc.PublishSchedule(ctx, "lawyer-1", "2026-09-07", nil)
	assert.Error(t, err)

	_, err = svc.PublishSchedule(ctx, "lawyer-1", "2026-09-07", []SlotOffer{{Start: 600, Price: 1000}, {Start: 600, Price: 1100}})
	assert.Error(t, err)

	_, err = svc.PublishSchedule(ctx, "lawyer-1", "2026-09-07", []SlotOffer{{Start: 1500, Price: 1000}})
	assert.Error(t, err)
}
