package payment

import (
	"testing"

	"petbnb/models"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"
)

func TestIntentIDFromClientSecret(t *testing.T) {
	id, err := intentIDFromClientSecret("pi_3MtwBwLkdIwHu7ix28a3tqPa_secret_YrKJUKribcBjcG8HVhfZluoGH")
	assert.NoError(t, err)
	assert.Equal(t, "pi_3MtwBwLkdIwHu7ix28a3tqPa", id)

	_, err = intentIDFromClientSecret("pi_without_a_marker")
	assert.Error(t, err)

	_, err = intentIDFromClientSecret("_secret_only")
	assert.Error(t, err)
}

func TestMapIntentStatus(t *testing.T) {
	assert.Equal(t, models.PaymentSucceeded, mapIntentStatus(stripe.PaymentIntentStatusSucceeded))
	assert.Equal(t, models.PaymentRequiresAction, mapIntentStatus(stripe.PaymentIntentStatusRequiresAction))
	assert.Equal(t, models.PaymentRequiresAction, mapIntentStatus(stripe.PaymentIntentStatusRequiresConfirmation))
	assert.Equal(t, models.PaymentFailed, mapIntentStatus(stripe.PaymentIntentStatusCanceled))
	assert.Equal(t, models.PaymentFailed, mapIntentStatus(stripe.PaymentIntentStatusRequiresPaymentMethod))
}

func TestDeclineMessage(t *testing.T) {
	assert.Empty(t, declineMessage(&stripe.PaymentIntent{}))
	assert.Equal(t, "Your card has insufficient funds.", declineMessage(&stripe.PaymentIntent{
		LastPaymentError: &stripe.Error{Msg: "Your card has insufficient funds."},
	}))
}
