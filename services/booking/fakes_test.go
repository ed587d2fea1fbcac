package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	appointmentRepo "lexbook/database/repository/appointment"
	providerRepo "lexbook/database/repository/provider"
	slotRepo "lexbook/database/repository/slot"
	"lexbook/models"
)

// fakeSlotRepo is an in-memory SlotRepository whose MarkUnavailable performs
// the same conditional flip the Mongo implementation does, under a mutex, so
// concurrency tests exercise the real at-most-one semantics.
type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.AvailabilitySlot
}

func newFakeSlotRepo(slots ...models.AvailabilitySlot) *fakeSlotRepo {
	r := &fakeSlotRepo{slots: make(map[string]*models.AvailabilitySlot)}
	for i := range slots {
		s := slots[i]
		r.slots[s.ID] = &s
	}
	return r
}

func (r *fakeSlotRepo) CreateMany(_ context.Context, slots []models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range slots {
		s := slots[i]
		r.slots[s.ID] = &s
	}
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, slotID string) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, slotRepo.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) GetByProviderAndDate(_ context.Context, providerID, date string) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.ProviderID == providerID && s.Date == date {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *fakeSlotRepo) MarkUnavailable(_ context.Context, slotID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok || !s.IsAvailable {
		return false, nil
	}
	s.IsAvailable = false
	return true, nil
}

func (r *fakeSlotRepo) MarkAvailable(_ context.Context, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[slotID]; ok {
		s.IsAvailable = true
	}
	return nil
}

// fakeAppointmentRepo mirrors the Mongo repository's conditional status
// update and idempotency-key lookup.
type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[string]*models.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.IdempotencyKey != "" {
		for _, existing := range r.appts {
			if existing.IdempotencyKey == appt.IdempotencyKey && existing.Status != models.StatusCancelled {
				return fmt.Errorf("duplicate idempotency key %s", appt.IdempotencyKey)
			}
		}
	}
	copied := *appt
	r.appts[appt.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) GetByIdempotencyKey(_ context.Context, key string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.IdempotencyKey == key && a.Status != models.StatusCancelled {
			copied := *a
			return &copied, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id string, from []string, to, paymentRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, f := range from {
		if a.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	if paymentRef != "" {
		a.PaymentRef = paymentRef
	}
	return true, nil
}

func (r *fakeAppointmentRepo) ListByClient(_ context.Context, clientID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAppointmentRepo) ListByProviderAndDate(_ context.Context, providerID, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.ProviderID == providerID && a.Date == date {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListPendingBefore(_ context.Context, cutoff time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.Status == models.StatusPendingPayment && a.CreatedAt.Before(cutoff) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// fakeProviderRepo serves a fixed set of providers.
type fakeProviderRepo struct {
	providers map[string]*models.Provider
}

func newFakeProviderRepo(providers ...models.Provider) *fakeProviderRepo {
	r := &fakeProviderRepo{providers: make(map[string]*models.Provider)}
	for i := range providers {
		p := providers[i]
		r.providers[p.ID] = &p
	}
	return r
}

func (r *fakeProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProviderRepo) Create(_ context.Context, p *models.Provider) error {
	copied := *p
	r.providers[p.ID] = &copied
	return nil
}

func (r *fakeProviderRepo) Search(_ context.Context, criteria providerRepo.ProviderSearchCriteria) ([]models.Provider, error) {
	var out []models.Provider
	for _, p := range r.providers {
		if criteria.Mode != "" && !p.SupportsMode(criteria.Mode) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakePaymentProcessor succeeds (or fails) without touching a gateway.
type fakePaymentProcessor struct {
	failCollect bool
	orders      int
}

func (p *fakePaymentProcessor) CreateOrder(_ context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	p.orders++
	now := time.Now()
	return &models.Invoice{
		InvoiceID: uuid.New().String(),
		PaymentID: "pi_test_" + req.AppointmentID,
		ClientID:  req.ClientID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    models.InvoicePending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *fakePaymentProcessor) CollectPayment(_ context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if p.failCollect {
		return nil, NewBookingError(CodePaymentFailed, "card declined", nil)
	}
	paid := *invoice
	paid.Status = models.InvoicePaid
	paid.UpdatedAt = time.Now()
	return &paid, nil
}

// fakeExpiryScheduler records scheduled sweeps.
type fakeExpiryScheduler struct {
	mu        sync.Mutex
	scheduled []string
}

func (s *fakeExpiryScheduler) ScheduleExpiry(appointmentID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, appointmentID)
	return nil
}

// fakeNotifier records confirmation events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []models.AppointmentConfirmedEvent
}

func (n *fakeNotifier) NotifyAppointmentConfirmed(_ context.Context, evt models.AppointmentConfirmedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return nil
}
