package payment

import (
	"context"
	"errors"
	"fmt"

	transactionRepo "glowhub/database/repository/transaction"
	"glowhub/models"

	"go.uber.org/zap"
)

// Reconcile brings a transaction whose booking attempt gave up in line with
// the provider. Funds captured without a booking are refunded. It returns
// ErrStillPending while the provider is undecided so the caller can retry.
func (s *DefaultPaymentService) Reconcile(ctx context.Context, txID string) (ReconcileOutcome, error) {
	tx, err := s.Repo.GetByID(ctx, txID)
	if err != nil {
		if errors.Is(err, transactionRepo.ErrNotFound) {
			return ReconcileNothingToDo, nil
		}
		return "", err
	}

	switch tx.Status {
	case models.PaymentPaid:
		if tx.BookingID != "" {
			return ReconcileNothingToDo, nil
		}
		if err := s.Refund(ctx, txID); err != nil {
			return "", err
		}
		return ReconcileRefunded, nil
	case models.PaymentPendingVerification, models.PaymentFailed:
		// FAILED here may only be our own timeout; ask the provider.
	default:
		return ReconcileNothingToDo, nil
	}

	provider, ok := s.Providers[tx.Provider]
	if !ok || tx.GatewayRef == "" {
		return ReconcileNothingToDo, nil
	}
	ps, err := provider.Status(ctx, tx.GatewayRef)
	if err != nil {
		return "", fmt.Errorf("payment provider status check failed: %w", err)
	}

	switch ps.Status {
	case models.PaymentPendingVerification:
		return "", ErrStillPending
	case models.PaymentPaid:
		if err := provider.Refund(ctx, tx.GatewayRef, tx.Amount); err != nil {
			return "", fmt.Errorf("refund of %s failed: %w", txID, err)
		}
		if _, err := s.Repo.UpdateStatus(ctx, txID, tx.Status, models.PaymentRefunded, ps.ReceiptURL); err != nil {
			return "", err
		}
		s.logger().Info("late payment refunded", zap.String("transactionId", txID), zap.Int64("amount", tx.Amount))
		return ReconcileRefunded, nil
	default:
		if _, err := s.Repo.UpdateStatus(ctx, txID, models.PaymentPendingVerification, models.PaymentFailed, ""); err != nil {
			return "", err
		}
		return ReconcileFailed, nil
	}
}
