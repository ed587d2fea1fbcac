package cron

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// AsynqExpiryScheduler enqueues expiry sweeps; it satisfies the booking
// package's ExpiryScheduler.
type AsynqExpiryScheduler struct {
	Client *asynq.Client
}

// NewExpiryScheduler builds a scheduler with its own asynq client.
func NewExpiryScheduler() *AsynqExpiryScheduler {
	return &AsynqExpiryScheduler{Client: asynq.NewClient(redisOpts())}
}

// ScheduleExpiry enqueues an expiry check for the appointment, processed after
// the given delay.
func (s *AsynqExpiryScheduler) ScheduleExpiry(appointmentID string, after time.Duration) error {
	payload, err := json.Marshal(ExpirePayload{AppointmentID: appointmentID})
	if err != nil {
		return fmt.Errorf("failed to marshal expiry payload: %w", err)
	}
	task := asynq.NewTask(TypeAppointmentExpire, payload)
	if _, err := s.Client.Enqueue(task, asynq.ProcessIn(after)); err != nil {
		return fmt.Errorf("failed to enqueue expiry task: %w", err)
	}
	return nil
}
