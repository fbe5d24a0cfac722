package tasks

import (
	"context"
	"encoding/json"

	"petbnb/models"

	"github.com/hibiken/asynq"
)

const TypeBookingMarkPaid = "booking:mark_paid"

// NewBookingMarkPaidTask builds a task that records a confirmed payment on the
// booking. Retries must outlast any transient store outage: the charge already
// went through, so the record has to be confirmed eventually.
func NewBookingMarkPaidTask(payload models.BookingMarkPaidPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingMarkPaid, b)
	opts := []asynq.Option{asynq.MaxRetry(20)}

	return task, opts, nil
}

// SchedulePaymentReconcile enqueues a retried MarkPaid for a booking whose
// payment was confirmed by the gateway.
func (s *Scheduler) SchedulePaymentReconcile(ctx context.Context, bookingID, paymentIntentID string) error {
	task, opts, err := NewBookingMarkPaidTask(models.BookingMarkPaidPayload{
		BookingID:       bookingID,
		PaymentIntentID: paymentIntentID,
	})
	if err != nil {
		return err
	}
	_, err = s.client.EnqueueContext(ctx, task, opts...)
	return err
}
