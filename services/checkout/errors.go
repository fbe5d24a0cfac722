package checkout

import (
	"errors"
	"fmt"
)

// FailureReason classifies a submission-time failure.
type FailureReason string

const (
	ReasonBookingCreationFailed FailureReason = "booking_creation_failed"
	ReasonPaymentSetupFailed    FailureReason = "payment_setup_failed"
	ReasonPaymentDeclined       FailureReason = "payment_declined"
)

// ErrSessionNotFound is returned when a checkout session does not exist, has
// expired, or belongs to a different owner.
var ErrSessionNotFound = errors.New("checkout session not found or expired")

// ErrSubmitInProgress guards against duplicate submissions while one is outstanding.
var ErrSubmitInProgress = errors.New("a submission is already in progress for this session")

// ErrDraftLocked is returned when a mutation is attempted after the draft was frozen.
var ErrDraftLocked = errors.New("checkout draft can no longer be modified")

// InvalidInputError indicates a pricing precondition was violated. It is a caller
// error: it cannot occur for drafts that passed validation.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func NewInvalidInputError(msg string) error {
	return &InvalidInputError{Message: msg}
}

// ValidationError is a user-correctable failure that blocks a step transition.
// It never escapes the state machine as a process failure; it is surfaced inline.
type ValidationError struct {
	Step   State
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Reason)
}
