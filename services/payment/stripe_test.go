package payment

import (
	"testing"

	"glowhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"
)

func TestIntentStatus(t *testing.T) {
	tests := map[stripe.PaymentIntentStatus]models.PaymentStatus{
		stripe.PaymentIntentStatusSucceeded:             models.PaymentPaid,
		stripe.PaymentIntentStatusCanceled:              models.PaymentFailed,
		stripe.PaymentIntentStatusProcessing:            models.PaymentPendingVerification,
		stripe.PaymentIntentStatusRequiresAction:        models.PaymentPendingVerification,
		stripe.PaymentIntentStatusRequiresPaymentMethod: models.PaymentPendingVerification,
	}
	for in, want := range tests {
		assert.Equal(t, want, intentStatus(in), string(in))
	}
}
