package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"lexbook/config"
	"lexbook/services/booking"
)

const TypeAppointmentExpire = "appointment:expire"

// ExpirePayload identifies the appointment a scheduled sweep should examine.
type ExpirePayload struct {
	AppointmentID string `json:"appointmentId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitExpiryWorker runs the async worker in background. Each task fires once
// per reservation, after the payment retry window; the ledger decides whether
// the appointment is still pending and reclaims the slot if so.
func InitExpiryWorker(ledger booking.Ledger) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAppointmentExpire, handleExpireTask(ledger))

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleExpireTask(ledger booking.Ledger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ExpiryWorker] invalid payload: %v", err)
			return err
		}
		if err := ledger.Expire(ctx, p.AppointmentID); err != nil {
			log.Printf("[ExpiryWorker] failed to expire appointment %s: %v", p.AppointmentID, err)
			return err
		}
		return nil
	}
}
