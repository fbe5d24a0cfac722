package models

// PaymentIntent is the handle returned by the payment gateway when an
// authorization is opened for a booking.
type PaymentIntent struct {
	ClientSecret string `json:"client_secret"`
}

// PaymentStatus is the gateway-reported outcome of a confirmation attempt.
type PaymentStatus string

const (
	PaymentSucceeded      PaymentStatus = "succeeded"
	PaymentFailed         PaymentStatus = "failed"
	PaymentRequiresAction PaymentStatus = "requires_action"
)

// PaymentConfirmation is the result of confirming a payment intent.
type PaymentConfirmation struct {
	Status          PaymentStatus `json:"status"`
	PaymentIntentID string        `json:"payment_intent_id"`
	// Message carries the gateway's human-readable decline or error text, if any.
	Message string `json:"message,omitempty"`
}

// BookingExpirePayload is the queue payload for expiring a stale pending booking.
type BookingExpirePayload struct {
	BookingID string `json:"booking_id"`
}

// BookingMarkPaidPayload is the queue payload for recording a confirmed payment
// on a booking whose synchronous MarkPaid did not go through.
type BookingMarkPaidPayload struct {
	BookingID       string `json:"booking_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}
