package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingRepo "petbnb/database/repository/booking"
	"petbnb/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeGateway implements the checkout payment gateway on Stripe
// PaymentIntents. Amounts are taken from the booking record (minor units) and
// the booking ID travels in the intent metadata.
type StripeGateway struct {
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

func NewStripeGateway(bookings bookingRepo.BookingRepository, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{Bookings: bookings, Logger: logger}
}

// CreatePaymentIntent opens a payment authorization scoped to the booking.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, bookingID string) (*models.PaymentIntent, error) {
	booking, err := g.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %s not found: %w", bookingID, err)
	}
	if booking.TotalCents <= 0 {
		return nil, fmt.Errorf("booking %s has a non-positive total", bookingID)
	}

	currency := booking.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(booking.TotalCents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", bookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	g.Logger.Info("payment intent created",
		zap.String("booking_id", bookingID),
		zap.String("payment_intent_id", pi.ID))
	return &models.PaymentIntent{ClientSecret: pi.ClientSecret}, nil
}

// ConfirmPayment confirms the intent behind the client secret. A gateway
// decline comes back as a failed confirmation carrying Stripe's message, not as
// a transport error.
func (g *StripeGateway) ConfirmPayment(ctx context.Context, clientSecret, paymentMethod string) (*models.PaymentConfirmation, error) {
	intentID, err := intentIDFromClientSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethod),
	}
	params.Context = ctx

	pi, err := paymentintent.Confirm(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return &models.PaymentConfirmation{
				Status:          models.PaymentFailed,
				PaymentIntentID: intentID,
				Message:         stripeErr.Msg,
			}, nil
		}
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	return &models.PaymentConfirmation{
		Status:          mapIntentStatus(pi.Status),
		PaymentIntentID: pi.ID,
		Message:         declineMessage(pi),
	}, nil
}

func mapIntentStatus(status stripe.PaymentIntentStatus) models.PaymentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentSucceeded
	case stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation:
		return models.PaymentRequiresAction
	default:
		return models.PaymentFailed
	}
}

func declineMessage(pi *stripe.PaymentIntent) string {
	if pi.LastPaymentError != nil {
		return pi.LastPaymentError.Msg
	}
	return ""
}

// intentIDFromClientSecret recovers the intent ID from a client secret of the
// form "pi_XXX_secret_YYY".
func intentIDFromClientSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret")
	if !found || id == "" {
		return "", fmt.Errorf("malformed client secret")
	}
	return id, nil
}
