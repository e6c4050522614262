package transactionRepo

import (
	"context"
	"errors"

	"glowhub/models"
)

// ErrNotFound is returned when no transaction has the requested id.
var ErrNotFound = errors.New("transaction not found")

// TransactionRepository persists payment transactions. Status changes are
// conditional on the current status so concurrent checks never regress a
// settled transaction.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	// UpdateStatus moves a transaction from one status to another and reports
	// whether this call performed the change.
	UpdateStatus(ctx context.Context, id string, from, to models.PaymentStatus, receiptURL string) (bool, error)
	SetGatewayRef(ctx context.Context, id, ref string) error
	LinkBooking(ctx context.Context, id, bookingID string) error
}
