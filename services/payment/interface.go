package payment

import (
	"context"
	"errors"

	"glowhub/models"
)

var (
	// ErrInvalidRequest is returned for requests that can never be charged.
	ErrInvalidRequest = errors.New("invalid payment request")
	// ErrNotRefundable is returned when a transaction holds no captured funds.
	ErrNotRefundable = errors.New("transaction is not refundable")
	// ErrNoReceipt is returned when a transaction has no receipt yet.
	ErrNoReceipt = errors.New("receipt not available")
	// ErrStillPending is returned by Reconcile while the provider has not decided.
	ErrStillPending = errors.New("payment still pending at provider")
)

// Gateway is the payment collaborator of the booking flow.
type Gateway interface {
	InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	// CheckStatus never re-charges. Unknown transactions report FAILED.
	CheckStatus(ctx context.Context, txID string) (models.PaymentStatus, error)
	GetReceipt(ctx context.Context, txID string) (string, error)
	// MarkFailed fails a transaction that is still pending or awaiting cash.
	// It reports whether the transaction was actually changed.
	MarkFailed(ctx context.Context, txID string) (bool, error)
	Refund(ctx context.Context, txID string) error
	LinkBooking(ctx context.Context, txID, bookingID string) error
	Get(ctx context.Context, txID string) (*models.Transaction, error)
	// Reconcile settles a transaction abandoned by its booking attempt.
	Reconcile(ctx context.Context, txID string) (ReconcileOutcome, error)
}

// ReconcileOutcome reports what Reconcile did.
type ReconcileOutcome string

const (
	ReconcileNothingToDo ReconcileOutcome = "nothing_to_do"
	ReconcileRefunded    ReconcileOutcome = "refunded"
	ReconcileFailed      ReconcileOutcome = "failed"
)

// Provider collects money for one or more payment methods.
type Provider interface {
	// Charge starts an external collection and returns the provider reference.
	Charge(ctx context.Context, tx models.Transaction) (string, error)
	Status(ctx context.Context, ref string) (ProviderStatus, error)
	Refund(ctx context.Context, ref string, amount int64) error
}

// ProviderStatus is a provider's view of one charge.
type ProviderStatus struct {
	Status     models.PaymentStatus
	ReceiptURL string
}

// InitiateRequest starts a payment for a booking attempt.
type InitiateRequest struct {
	BookingRef     string
	Amount         int64
	Method         models.PaymentMethod
	ContactNumber  string
	PointsRedeemed int64
}

// InitiateResult is returned as soon as the transaction is recorded.
type InitiateResult struct {
	TransactionID string               `json:"transactionId"`
	Status        models.PaymentStatus `json:"status"`
	PointsEarned  int64                `json:"pointsEarned"`
	Message       string               `json:"message"`
}
