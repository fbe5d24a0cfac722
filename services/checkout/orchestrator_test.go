package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"petbnb/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookings struct {
	createErr   error
	createdReqs []models.BookingRequest
	nextID      string

	markPaidErr        error
	paidID, paidIntent string
	booking            *models.Booking
	getErr             error
}

func (f *fakeBookings) CreateBooking(ctx context.Context, req models.BookingRequest) (string, error) {
	f.createdReqs = append(f.createdReqs, req)
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.nextID, nil
}

func (f *fakeBookings) MarkPaid(ctx context.Context, bookingID, paymentIntentID string) error {
	if f.markPaidErr != nil {
		return f.markPaidErr
	}
	f.paidID, f.paidIntent = bookingID, paymentIntentID
	return nil
}

func (f *fakeBookings) CancelBooking(ctx context.Context, bookingID, reason string) error {
	return nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

type fakeGateway struct {
	intentErr    error
	intentCalls  int
	confirmErr   error
	confirmCalls int
	confirmation *models.PaymentConfirmation
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, bookingID string) (*models.PaymentIntent, error) {
	f.intentCalls++
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return &models.PaymentIntent{ClientSecret: "pi_123_secret_abc"}, nil
}

func (f *fakeGateway) ConfirmPayment(ctx context.Context, clientSecret, paymentMethod string) (*models.PaymentConfirmation, error) {
	f.confirmCalls++
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return f.confirmation, nil
}

type fakeTasks struct {
	expiries   []string
	reconciled []models.BookingMarkPaidPayload
}

func (f *fakeTasks) ScheduleExpiry(ctx context.Context, bookingID string) error {
	f.expiries = append(f.expiries, bookingID)
	return nil
}

func (f *fakeTasks) SchedulePaymentReconcile(ctx context.Context, bookingID, paymentIntentID string) error {
	f.reconciled = append(f.reconciled, models.BookingMarkPaidPayload{
		BookingID:       bookingID,
		PaymentIntentID: paymentIntentID,
	})
	return nil
}

func frozenTestDraft(t *testing.T, offering models.ServiceOffering) models.BookingDraft {
	t.Helper()
	start := time.Now().Add(2 * time.Hour)
	end := start.Add(24 * time.Hour)
	price, err := ComputePrice(offering, 1, start, end)
	require.NoError(t, err)
	return models.BookingDraft{
		SelectedPetIDs:      []string{"p1"},
		StartAt:             start,
		EndAt:               end,
		SpecialRequirements: "two walks a day",
		Price:               &price,
	}
}

func newTestOrchestrator(bookings *fakeBookings, gateway *fakeGateway, tasks *fakeTasks) *Orchestrator {
	return NewOrchestrator(bookings, gateway, tasks, zap.NewNop(), 5*time.Second)
}

func TestSubmitHappyPath(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{nextID: "b-1"}
	gateway := &fakeGateway{confirmation: &models.PaymentConfirmation{
		Status:          models.PaymentSucceeded,
		PaymentIntentID: "pi_123",
	}}
	tasks := &fakeTasks{}
	o := newTestOrchestrator(bookings, gateway, tasks)

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionCompleted, sub.State)
	assert.Equal(t, "b-1", sub.BookingID)
	assert.Equal(t, "pi_123", sub.PaymentIntentID)
	assert.Equal(t, "b-1", bookings.paidID)
	assert.Empty(t, tasks.expiries)
	assert.Empty(t, tasks.reconciled)

	require.Len(t, bookings.createdReqs, 1)
	req := bookings.createdReqs[0]
	assert.Equal(t, int64(5750), req.TotalCents)
	assert.Equal(t, "two walks a day", req.SpecialRequirements)
	assert.Equal(t, []string{"p1"}, req.PetIDs)
}

func TestSubmitBookingCreationFails(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{createErr: errors.New("caregiver already booked")}
	gateway := &fakeGateway{}
	o := newTestOrchestrator(bookings, gateway, &fakeTasks{})

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Equal(t, string(ReasonBookingCreationFailed), sub.FailureReason)
	assert.Empty(t, sub.BookingID)
	assert.Contains(t, sub.Message, "caregiver already booked")
	assert.Zero(t, gateway.intentCalls, "no payment step may run after a failed creation")
}

func TestSubmitPaymentSetupFails(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{nextID: "b-1"}
	gateway := &fakeGateway{intentErr: errors.New("gateway unavailable")}
	tasks := &fakeTasks{}
	o := newTestOrchestrator(bookings, gateway, tasks)

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Equal(t, string(ReasonPaymentSetupFailed), sub.FailureReason)
	assert.Equal(t, "b-1", sub.BookingID, "pending booking stays observable")
	assert.Zero(t, gateway.confirmCalls)
	assert.Equal(t, []string{"b-1"}, tasks.expiries)
}

func TestSubmitPaymentDeclined(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{nextID: "b-1"}
	gateway := &fakeGateway{confirmation: &models.PaymentConfirmation{
		Status:          models.PaymentFailed,
		PaymentIntentID: "pi_123",
		Message:         "Your card was declined.",
	}}
	tasks := &fakeTasks{}
	o := newTestOrchestrator(bookings, gateway, tasks)

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Equal(t, string(ReasonPaymentDeclined), sub.FailureReason)
	assert.Equal(t, "b-1", sub.BookingID, "booking id survives the decline")
	assert.Equal(t, "Your card was declined.", sub.Message)
	assert.Empty(t, bookings.paidID)
	assert.Equal(t, []string{"b-1"}, tasks.expiries)
}

func TestSubmitRequiresActionIsDecline(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{nextID: "b-1"}
	gateway := &fakeGateway{confirmation: &models.PaymentConfirmation{
		Status:          models.PaymentRequiresAction,
		PaymentIntentID: "pi_123",
	}}
	o := newTestOrchestrator(bookings, gateway, &fakeTasks{})

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Equal(t, string(ReasonPaymentDeclined), sub.FailureReason)
	assert.Contains(t, sub.Message, "requires_action")
}

func TestSubmitMarkPaidFailureSchedulesReconcile(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{nextID: "b-1", markPaidErr: errors.New("mongo down")}
	gateway := &fakeGateway{confirmation: &models.PaymentConfirmation{
		Status:          models.PaymentSucceeded,
		PaymentIntentID: "pi_123",
	}}
	tasks := &fakeTasks{}
	o := newTestOrchestrator(bookings, gateway, tasks)

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	// The charge went through, so the submission is completed and the record is
	// handed to the reconcile task rather than left for the expiry sweep.
	assert.Equal(t, models.SubmissionCompleted, sub.State)
	assert.Equal(t, "b-1", sub.BookingID)
	require.Len(t, tasks.reconciled, 1)
	assert.Equal(t, models.BookingMarkPaidPayload{
		BookingID:       "b-1",
		PaymentIntentID: "pi_123",
	}, tasks.reconciled[0])
	assert.Empty(t, tasks.expiries)
}

// stallBookings blocks booking creation until the call's context expires.
type stallBookings struct {
	fakeBookings
}

func (s *stallBookings) CreateBooking(ctx context.Context, req models.BookingRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// stallGateway blocks the selected payment call until the context expires.
type stallGateway struct {
	fakeGateway
	stallIntent  bool
	stallConfirm bool
}

func (g *stallGateway) CreatePaymentIntent(ctx context.Context, bookingID string) (*models.PaymentIntent, error) {
	if g.stallIntent {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return g.fakeGateway.CreatePaymentIntent(ctx, bookingID)
}

func (g *stallGateway) ConfirmPayment(ctx context.Context, clientSecret, paymentMethod string) (*models.PaymentConfirmation, error) {
	if g.stallConfirm {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return g.fakeGateway.ConfirmPayment(ctx, clientSecret, paymentMethod)
}

func TestSubmitTimeoutDuringBookingCreation(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &stallBookings{}
	gateway := &fakeGateway{}
	o := NewOrchestrator(bookings, gateway, &fakeTasks{}, zap.NewNop(), 10*time.Millisecond)

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Equal(t, string(ReasonBookingCreationFailed), sub.FailureReason)
	assert.Contains(t, sub.Message, "context deadline exceeded")
	assert.Zero(t, gateway.intentCalls)
}

func TestSubmitTimeoutDuringIntentCreation(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{nextID: "b-1"}
	gateway := &stallGateway{stallIntent: true}
	tasks := &fakeTasks{}
	o := NewOrchestrator(bookings, gateway, tasks, zap.NewNop(), 10*time.Millisecond)

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Equal(t, string(ReasonPaymentSetupFailed), sub.FailureReason)
	assert.Equal(t, "b-1", sub.BookingID)
	assert.Equal(t, []string{"b-1"}, tasks.expiries)
}

func TestSubmitTimeoutDuringConfirmation(t *testing.T) {
	offering := boardingOffering(5000)
	bookings := &fakeBookings{nextID: "b-1"}
	gateway := &stallGateway{stallConfirm: true}
	o := NewOrchestrator(bookings, gateway, &fakeTasks{}, zap.NewNop(), 10*time.Millisecond)

	sub := o.Submit(context.Background(), "owner-1", frozenTestDraft(t, offering), offering, "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Equal(t, string(ReasonPaymentDeclined), sub.FailureReason)
	assert.Equal(t, "b-1", sub.BookingID)
}

func TestResumePaymentRunsPaymentLegOnly(t *testing.T) {
	bookings := &fakeBookings{
		nextID: "unused",
		booking: &models.Booking{
			ID:            "b-1",
			Status:        models.BookingPending,
			PaymentStatus: models.BookingPaymentPending,
		},
	}
	gateway := &fakeGateway{confirmation: &models.PaymentConfirmation{
		Status:          models.PaymentSucceeded,
		PaymentIntentID: "pi_456",
	}}
	o := newTestOrchestrator(bookings, gateway, &fakeTasks{})

	sub := o.ResumePayment(context.Background(), "b-1", "pm_card")

	assert.Equal(t, models.SubmissionCompleted, sub.State)
	assert.Equal(t, "b-1", sub.BookingID)
	assert.Equal(t, "pi_456", sub.PaymentIntentID)
	assert.Empty(t, bookings.createdReqs, "resume must not create another booking")
}

func TestResumePaymentRejectsSettledBooking(t *testing.T) {
	bookings := &fakeBookings{
		booking: &models.Booking{
			ID:            "b-1",
			Status:        models.BookingConfirmed,
			PaymentStatus: models.BookingPaymentPaid,
		},
	}
	gateway := &fakeGateway{}
	o := newTestOrchestrator(bookings, gateway, &fakeTasks{})

	sub := o.ResumePayment(context.Background(), "b-1", "pm_card")

	assert.Equal(t, models.SubmissionFailed, sub.State)
	assert.Zero(t, gateway.intentCalls)
}
