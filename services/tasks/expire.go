package tasks

import (
	"context"
	"encoding/json"
	"time"

	"petbnb/models"

	"github.com/hibiken/asynq"
)

const TypeBookingExpire = "booking:expire"

// NewBookingExpireTask builds a delayed task that cancels the booking if its
// payment has not landed by the time the task fires.
func NewBookingExpireTask(payload models.BookingExpirePayload, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingExpire, b)
	opts := []asynq.Option{asynq.ProcessIn(delay)}

	return task, opts, nil
}

// Scheduler enqueues checkout follow-up tasks. It implements the checkout
// orchestrator's TaskScheduler collaborator.
type Scheduler struct {
	client      *asynq.Client
	expiryDelay time.Duration
}

func NewScheduler(redisOpt asynq.RedisClientOpt, expiryDelay time.Duration) *Scheduler {
	return &Scheduler{
		client:      asynq.NewClient(redisOpt),
		expiryDelay: expiryDelay,
	}
}

// ScheduleExpiry enqueues a delayed cancellation for the given booking.
func (s *Scheduler) ScheduleExpiry(ctx context.Context, bookingID string) error {
	task, opts, err := NewBookingExpireTask(models.BookingExpirePayload{BookingID: bookingID}, s.expiryDelay)
	if err != nil {
		return err
	}
	_, err = s.client.EnqueueContext(ctx, task, opts...)
	return err
}
