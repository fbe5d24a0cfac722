package models

import "time"

// BookingStatus represents the lifecycle state of a booking record.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// BookingPaymentStatus represents the payment state of a booking record.
type BookingPaymentStatus string

const (
	BookingPaymentPending  BookingPaymentStatus = "pending"
	BookingPaymentPaid     BookingPaymentStatus = "paid"
	BookingPaymentRefunded BookingPaymentStatus = "refunded"
)

// Booking is a persisted booking record. A booking is created in status "pending"
// with payment "pending"; a booking whose payment never confirms is a pending
// booking and is cancelled explicitly, never silently deleted.
type Booking struct {
	ID                  string               `bson:"id" json:"id"`
	OwnerID             string               `bson:"owner_id" json:"owner_id"`
	CaregiverID         string               `bson:"caregiver_id" json:"caregiver_id"`
	ServiceID           string               `bson:"service_id" json:"service_id"`
	PetIDs              []string             `bson:"pet_ids" json:"pet_ids"`
	StartAt             time.Time            `bson:"start_at" json:"start_at"`
	EndAt               time.Time            `bson:"end_at" json:"end_at"`
	TotalCents          int64                `bson:"total_cents" json:"total_cents"`
	Currency            string               `bson:"currency" json:"currency"`
	SpecialRequirements string               `bson:"special_requirements,omitempty" json:"special_requirements,omitempty"`
	Status              BookingStatus        `bson:"status" json:"status"`
	PaymentStatus       BookingPaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentIntentID     string               `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
	CancelReason        string               `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CreatedAt           time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at" json:"updated_at"`
}

// BookingRequest carries everything the booking service needs to create a record.
type BookingRequest struct {
	OwnerID             string    `json:"owner_id"`
	ServiceID           string    `json:"service_id"`
	PetIDs              []string  `json:"pet_ids"`
	StartAt             time.Time `json:"start_at"`
	EndAt               time.Time `json:"end_at"`
	TotalCents          int64     `json:"total_cents"`
	Currency            string    `json:"currency"`
	SpecialRequirements string    `json:"special_requirements,omitempty"`
}

// SubmissionState is the terminal outcome of one submission attempt.
type SubmissionState string

const (
	SubmissionCompleted SubmissionState = "completed"
	SubmissionFailed    SubmissionState = "failed"
)

// BookingSubmission is the result of driving a frozen draft through booking
// creation and payment. On failure after booking creation the BookingID is
// retained so the caller can resume the payment leg without re-entering the
// wizard.
type BookingSubmission struct {
	BookingID       string          `json:"booking_id,omitempty"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	State           SubmissionState `json:"state"`
	FailureReason   string          `json:"failure_reason,omitempty"`
	Message         string          `json:"message,omitempty"`
}
