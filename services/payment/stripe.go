package payment

import (
	"context"
	"fmt"
	"strings"

	"glowhub/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// StripeProvider collects card payments through Stripe PaymentIntents.
// Amounts are whole currency units and are sent to Stripe in minor units.
type StripeProvider struct {
	intents paymentintent.Client
	refunds refund.Client
}

func NewStripeProvider(key string) *StripeProvider {
	backend := stripe.GetBackend(stripe.APIBackend)
	return &StripeProvider{
		intents: paymentintent.Client{B: backend, Key: key},
		refunds: refund.Client{B: backend, Key: key},
	}
}

func (p *StripeProvider) Charge(ctx context.Context, tx models.Transaction) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(tx.Amount * 100),
		Currency:    stripe.String(strings.ToLower(tx.Currency)),
		Description: stripe.String(fmt.Sprintf("GlowHub booking %s", tx.BookingRef)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("transaction_id", tx.ID)
	params.AddMetadata("booking_ref", tx.BookingRef)
	params.SetIdempotencyKey(tx.ID)

	pi, err := p.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return pi.ID, nil
}

func (p *StripeProvider) Status(ctx context.Context, ref string) (ProviderStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")

	pi, err := p.intents.Get(ref, params)
	if err != nil {
		return ProviderStatus{}, fmt.Errorf("stripe: get payment intent %s: %w", ref, err)
	}
	status := ProviderStatus{Status: intentStatus(pi.Status)}
	if status.Status == models.PaymentPaid && pi.LatestCharge != nil {
		status.ReceiptURL = pi.LatestCharge.ReceiptURL
	}
	return status, nil
}

func (p *StripeProvider) Refund(ctx context.Context, ref string, amount int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(ref),
		Amount:        stripe.Int64(amount * 100),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + ref)

	if _, err := p.refunds.New(params); err != nil {
		return fmt.Errorf("stripe: refund %s: %w", ref, err)
	}
	return nil
}

func intentStatus(s stripe.PaymentIntentStatus) models.PaymentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentPaid
	case stripe.PaymentIntentStatusCanceled:
		return models.PaymentFailed
	default:
		return models.PaymentPendingVerification
	}
}
