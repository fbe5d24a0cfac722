package checkout

import (
	"context"
	"time"

	"petbnb/models"

	"go.uber.org/zap"
)

// Orchestrator sequences the network-visible side effects of a submission:
// create booking, open a payment intent, confirm it. Each step is attempted
// once per call; a failure is terminal for that attempt and reported with
// enough detail for the caller to retry the whole flow or resume payment only.
type Orchestrator struct {
	Bookings BookingService
	Gateway  PaymentGateway
	Tasks    TaskScheduler
	Logger   *zap.Logger
	// CallTimeout bounds each external call so a submission cannot hang the
	// Submitting state indefinitely. A timeout is reported as the failure
	// reason of whichever call was outstanding.
	CallTimeout time.Duration
}

func NewOrchestrator(bookings BookingService, gateway PaymentGateway, scheduler TaskScheduler, logger *zap.Logger, callTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		Bookings:    bookings,
		Gateway:     gateway,
		Tasks:       scheduler,
		Logger:      logger,
		CallTimeout: callTimeout,
	}
}

// Submit drives a frozen draft to a terminal outcome. The booking record is
// created first; if any payment step then fails, the booking is left pending
// and its ID is retained on the failed submission so payment can be resumed.
func (o *Orchestrator) Submit(ctx context.Context, ownerID string, frozen models.BookingDraft, offering models.ServiceOffering, paymentMethod string) *models.BookingSubmission {
	req := models.BookingRequest{
		OwnerID:             ownerID,
		ServiceID:           offering.ID,
		PetIDs:              frozen.SelectedPetIDs,
		StartAt:             frozen.StartAt,
		EndAt:               frozen.EndAt,
		TotalCents:          AmountCents(frozen.Price.Total),
		Currency:            offering.Currency,
		SpecialRequirements: frozen.SpecialRequirements,
	}

	callCtx, cancel := o.callContext(ctx)
	bookingID, err := o.Bookings.CreateBooking(callCtx, req)
	cancel()
	if err != nil {
		o.Logger.Warn("booking creation failed",
			zap.String("service_id", offering.ID),
			zap.Error(err))
		return o.failed(ReasonBookingCreationFailed, "", "", err.Error())
	}
	o.Logger.Info("booking created",
		zap.String("booking_id", bookingID),
		zap.Int64("total_cents", req.TotalCents))

	return o.runPaymentLeg(ctx, bookingID, paymentMethod)
}

// ResumePayment re-runs only the payment leg against an existing pending
// booking, the retry path after PaymentSetupFailed or PaymentDeclined.
func (o *Orchestrator) ResumePayment(ctx context.Context, bookingID, paymentMethod string) *models.BookingSubmission {
	callCtx, cancel := o.callContext(ctx)
	booking, err := o.Bookings.GetBooking(callCtx, bookingID)
	cancel()
	if err != nil {
		return o.failed(ReasonPaymentSetupFailed, bookingID, "", err.Error())
	}
	if booking.Status != models.BookingPending || booking.PaymentStatus != models.BookingPaymentPending {
		return o.failed(ReasonPaymentSetupFailed, bookingID, "",
			"booking is no longer awaiting payment")
	}
	return o.runPaymentLeg(ctx, bookingID, paymentMethod)
}

func (o *Orchestrator) runPaymentLeg(ctx context.Context, bookingID, paymentMethod string) *models.BookingSubmission {
	callCtx, cancel := o.callContext(ctx)
	intent, err := o.Gateway.CreatePaymentIntent(callCtx, bookingID)
	cancel()
	if err != nil {
		o.Logger.Warn("payment intent creation failed",
			zap.String("booking_id", bookingID),
			zap.Error(err))
		o.scheduleExpiry(ctx, bookingID)
		return o.failed(ReasonPaymentSetupFailed, bookingID, "", err.Error())
	}

	callCtx, cancel = o.callContext(ctx)
	conf, err := o.Gateway.ConfirmPayment(callCtx, intent.ClientSecret, paymentMethod)
	cancel()
	if err != nil {
		o.Logger.Warn("payment confirmation failed",
			zap.String("booking_id", bookingID),
			zap.Error(err))
		o.scheduleExpiry(ctx, bookingID)
		return o.failed(ReasonPaymentDeclined, bookingID, "", err.Error())
	}
	if conf.Status != models.PaymentSucceeded {
		// requires_action counts as a decline here: this flow implements no
		// additional-authentication handling.
		msg := conf.Message
		if msg == "" {
			msg = "payment was not completed (status: " + string(conf.Status) + ")"
		}
		o.Logger.Warn("payment declined",
			zap.String("booking_id", bookingID),
			zap.String("status", string(conf.Status)))
		o.scheduleExpiry(ctx, bookingID)
		return o.failed(ReasonPaymentDeclined, bookingID, conf.PaymentIntentID, msg)
	}

	callCtx, cancel = o.callContext(ctx)
	if err := o.Bookings.MarkPaid(callCtx, bookingID, conf.PaymentIntentID); err != nil {
		// The charge went through. The record must end up confirmed, not swept
		// away as unpaid, so hand it to the retried reconcile task.
		o.Logger.Error("failed to mark booking paid",
			zap.String("booking_id", bookingID),
			zap.Error(err))
		o.scheduleReconcile(ctx, bookingID, conf.PaymentIntentID)
	}
	cancel()

	o.Logger.Info("submission completed",
		zap.String("booking_id", bookingID),
		zap.String("payment_intent_id", conf.PaymentIntentID))
	return &models.BookingSubmission{
		BookingID:       bookingID,
		PaymentIntentID: conf.PaymentIntentID,
		State:           models.SubmissionCompleted,
	}
}

func (o *Orchestrator) failed(reason FailureReason, bookingID, paymentIntentID, message string) *models.BookingSubmission {
	return &models.BookingSubmission{
		BookingID:       bookingID,
		PaymentIntentID: paymentIntentID,
		State:           models.SubmissionFailed,
		FailureReason:   string(reason),
		Message:         message,
	}
}

// scheduleExpiry arranges cleanup of the pending-without-payment window. The
// booking is not cancelled here: destroying a just-created booking on a
// transient gateway failure would forfeit the resume-payment path.
func (o *Orchestrator) scheduleExpiry(ctx context.Context, bookingID string) {
	if o.Tasks == nil {
		return
	}
	if err := o.Tasks.ScheduleExpiry(ctx, bookingID); err != nil {
		o.Logger.Error("failed to schedule booking expiry",
			zap.String("booking_id", bookingID),
			zap.Error(err))
	}
}

func (o *Orchestrator) scheduleReconcile(ctx context.Context, bookingID, paymentIntentID string) {
	if o.Tasks == nil {
		return
	}
	if err := o.Tasks.SchedulePaymentReconcile(ctx, bookingID, paymentIntentID); err != nil {
		o.Logger.Error("failed to schedule payment reconcile",
			zap.String("booking_id", bookingID),
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
	}
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.CallTimeout)
}
