package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"petbnb/config"
	"petbnb/models"
	"petbnb/services/bookings"
	"petbnb/services/tasks"

	"github.com/hibiken/asynq"
	cronlib "github.com/robfig/cron/v3"
)

// InitExpiryWorker runs the async worker that cancels pending bookings whose
// payment never completed.
func InitExpiryWorker(bookingSvc *bookings.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingExpire, handleBookingExpireTask(bookingSvc))
	mux.HandleFunc(tasks.TypeBookingMarkPaid, handleBookingMarkPaidTask(bookingSvc))

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleBookingExpireTask(bookingSvc *bookings.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ExpiryWorker] invalid payload: %v", err)
			return err
		}

		// Cancel refuses bookings that were paid or already cancelled in the
		// meantime; that outcome is the normal case, not a task failure.
		if err := bookingSvc.CancelBooking(ctx, p.BookingID, "payment not completed in time"); err != nil {
			log.Printf("[ExpiryWorker] booking %s not expired: %v", p.BookingID, err)
		}
		return nil
	}
}

func handleBookingMarkPaidTask(bookingSvc *bookings.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingMarkPaidPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ExpiryWorker] invalid payload: %v", err)
			return err
		}

		// The payment for this booking was confirmed; returning the error keeps
		// the task retrying until the record is marked paid.
		if err := bookingSvc.MarkPaid(ctx, p.BookingID, p.PaymentIntentID); err != nil {
			log.Printf("[ExpiryWorker] booking %s not yet marked paid: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}

// InitPendingSweep schedules the periodic sweep that catches pending bookings
// the task queue missed.
func InitPendingSweep(bookingSvc *bookings.Service) *cronlib.Cron {
	maxAge := time.Duration(config.AppConfig.PendingBookingTTLMin) * time.Minute

	c := cronlib.New()
	if _, err := c.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := bookingSvc.ExpireStalePending(ctx, maxAge); err != nil {
			log.Printf("[PendingSweep] sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("[PendingSweep] failed to schedule sweep: %v", err)
	}
	c.Start()
	return c
}
