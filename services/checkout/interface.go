package checkout

import (
	"context"
	"time"

	"petbnb/models"
)

// PetDirectory lists the pets on an owner's profile. Read-only; used to
// populate the pet-selection step.
type PetDirectory interface {
	ListPets(ctx context.Context, ownerID string) ([]models.Pet, error)
}

// ServiceCatalog resolves a bookable offering by ID.
type ServiceCatalog interface {
	GetOffering(ctx context.Context, serviceID string) (*models.ServiceOffering, error)
}

// BookingService creates and maintains booking records. CreateBooking failures
// (including scheduling conflicts) are surfaced verbatim to the caller.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (string, error)
	MarkPaid(ctx context.Context, bookingID, paymentIntentID string) error
	CancelBooking(ctx context.Context, bookingID, reason string) error
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
}

// PaymentGateway opens and confirms payment authorizations scoped to a booking.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, bookingID string) (*models.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, clientSecret, paymentMethod string) (*models.PaymentConfirmation, error)
}

// TaskScheduler enqueues follow-up work for a submission: expiry of a booking
// that entered the pending-without-payment window, and reconciliation of a
// booking whose payment was confirmed but not yet recorded.
type TaskScheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID string) error
	SchedulePaymentReconcile(ctx context.Context, bookingID, paymentIntentID string) error
}

// CheckoutService is the session-level API driving one checkout wizard.
type CheckoutService interface {
	StartSession(ctx context.Context, ownerID, serviceID string) (*Session, []models.Pet, error)
	GetSession(ctx context.Context, ownerID, sessionID string) (*Session, error)
	SelectPet(ctx context.Context, ownerID, sessionID, petID string) (*Session, error)
	DeselectPet(ctx context.Context, ownerID, sessionID, petID string) (*Session, error)
	SetSchedule(ctx context.Context, ownerID, sessionID string, start, end time.Time) (*Session, error)
	SetSpecialRequirements(ctx context.Context, ownerID, sessionID, text string) (*Session, error)
	Advance(ctx context.Context, ownerID, sessionID string) (*Session, error)
	Back(ctx context.Context, ownerID, sessionID string) (*Session, error)
	Submit(ctx context.Context, ownerID, sessionID, paymentMethod string) (*Session, error)
	ResumePayment(ctx context.Context, ownerID, sessionID, paymentMethod string) (*Session, error)
	Reopen(ctx context.Context, ownerID, sessionID string) (*Session, error)
	CancelSession(ctx context.Context, ownerID, sessionID string) error
}
