package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	transactionRepo "glowhub/database/repository/transaction"
	"glowhub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Settings are the commercial parameters applied at transaction creation.
type Settings struct {
	CommissionRate    float64
	PointsEarnDivisor int64
	Currency          string
}

// DefaultPaymentService records transactions and delegates collection to
// the provider registered for each payment method.
type DefaultPaymentService struct {
	Repo      transactionRepo.TransactionRepository
	Providers map[models.PaymentMethod]Provider
	Settings  Settings
	Logger    *zap.Logger
	Now       func() time.Time
}

func (s *DefaultPaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultPaymentService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// PlatformFee is the commission withheld from amount, rounded to the nearest unit.
func PlatformFee(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate))
}

// PointsEarned is floor(amount / divisor).
func PointsEarned(amount, divisor int64) int64 {
	if divisor <= 0 || amount <= 0 {
		return 0
	}
	return amount / divisor
}

func (s *DefaultPaymentService) InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	fee := PlatformFee(req.Amount, s.Settings.CommissionRate)
	tx := &models.Transaction{
		ID:             fmt.Sprintf("TX-%s", uuid.NewString()),
		BookingRef:     req.BookingRef,
		Amount:         req.Amount,
		Currency:       s.Settings.Currency,
		Provider:       req.Method,
		PlatformFee:    fee,
		NetPayout:      req.Amount - fee,
		ContactNumber:  req.ContactNumber,
		PointsRedeemed: req.PointsRedeemed,
		PointsEarned:   PointsEarned(req.Amount, s.Settings.PointsEarnDivisor),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var message string
	switch {
	case req.Amount == 0:
		tx.Status = models.PaymentPaid
		message = "Booking confirmed. Nothing to pay."
	case req.Method == models.PaymentCash:
		tx.Status = models.PaymentUnpaid
		message = "Booking confirmed. Payment due at salon."
	default:
		tx.Status = models.PaymentPendingVerification
		if req.Method.IsWallet() {
			message = fmt.Sprintf("Payment request sent to %s. Please check your phone to approve.", req.ContactNumber)
		} else {
			message = "Card payment submitted. Awaiting confirmation."
		}
	}

	if err := s.Repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if tx.Status == models.PaymentPendingVerification {
		provider, ok := s.Providers[req.Method]
		if !ok {
			s.fail(ctx, tx.ID)
			return nil, fmt.Errorf("%w: no provider for %s", ErrInvalidRequest, req.Method)
		}
		ref, err := provider.Charge(ctx, *tx)
		if err != nil {
			s.fail(ctx, tx.ID)
			return nil, fmt.Errorf("payment provider rejected charge: %w", err)
		}
		if err := s.Repo.SetGatewayRef(ctx, tx.ID, ref); err != nil {
			s.fail(ctx, tx.ID)
			return nil, fmt.Errorf("failed to record gateway reference: %w", err)
		}
	}

	s.logger().Info("payment initiated",
		zap.String("transactionId", tx.ID),
		zap.String("bookingRef", tx.BookingRef),
		zap.String("method", string(tx.Provider)),
		zap.Int64("amount", tx.Amount),
		zap.String("status", string(tx.Status)),
	)

	return &InitiateResult{
		TransactionID: tx.ID,
		Status:        tx.Status,
		PointsEarned:  tx.PointsEarned,
		Message:       message,
	}, nil
}

func (s *DefaultPaymentService) fail(ctx context.Context, txID string) {
	if _, err := s.Repo.UpdateStatus(ctx, txID, models.PaymentPendingVerification, models.PaymentFailed, ""); err != nil {
		s.logger().Error("failed to mark transaction failed", zap.String("transactionId", txID), zap.Error(err))
	}
}

func (s *DefaultPaymentService) CheckStatus(ctx context.Context, txID string) (models.PaymentStatus, error) {
	tx, err := s.Repo.GetByID(ctx, txID)
	if err != nil {
		if errors.Is(err, transactionRepo.ErrNotFound) {
			return models.PaymentFailed, nil
		}
		return "", err
	}
	if tx.Status.Terminal() {
		return tx.Status, nil
	}

	provider, ok := s.Providers[tx.Provider]
	if !ok || tx.GatewayRef == "" {
		return tx.Status, nil
	}
	ps, err := provider.Status(ctx, tx.GatewayRef)
	if err != nil {
		return "", fmt.Errorf("payment provider status check failed: %w", err)
	}
	if ps.Status == models.PaymentPendingVerification {
		return ps.Status, nil
	}

	changed, err := s.Repo.UpdateStatus(ctx, txID, models.PaymentPendingVerification, ps.Status, ps.ReceiptURL)
	if err != nil {
		return "", err
	}
	if !changed {
		// Another caller settled it first; report what was stored.
		latest, err := s.Repo.GetByID(ctx, txID)
		if err != nil {
			return "", err
		}
		return latest.Status, nil
	}
	s.logger().Info("payment settled", zap.String("transactionId", txID), zap.String("status", string(ps.Status)))
	return ps.Status, nil
}

func (s *DefaultPaymentService) GetReceipt(ctx context.Context, txID string) (string, error) {
	tx, err := s.Repo.GetByID(ctx, txID)
	if err != nil {
		return "", err
	}
	if tx.ReceiptURL == "" {
		return "", ErrNoReceipt
	}
	return tx.ReceiptURL, nil
}

// MarkFailed fails a transaction that is pending or awaiting cash at the salon.
func (s *DefaultPaymentService) MarkFailed(ctx context.Context, txID string) (bool, error) {
	changed, err := s.Repo.UpdateStatus(ctx, txID, models.PaymentPendingVerification, models.PaymentFailed, "")
	if err != nil || changed {
		return changed, err
	}
	return s.Repo.UpdateStatus(ctx, txID, models.PaymentUnpaid, models.PaymentFailed, "")
}

// Refund returns captured funds for a PAID transaction.
func (s *DefaultPaymentService) Refund(ctx context.Context, txID string) error {
	tx, err := s.Repo.GetByID(ctx, txID)
	if err != nil {
		return err
	}
	if tx.Status == models.PaymentRefunded {
		return nil
	}
	if tx.Status != models.PaymentPaid {
		return ErrNotRefundable
	}
	if tx.Amount > 0 {
		provider, ok := s.Providers[tx.Provider]
		if !ok {
			return fmt.Errorf("no provider for %s", tx.Provider)
		}
		if err := provider.Refund(ctx, tx.GatewayRef, tx.Amount); err != nil {
			return fmt.Errorf("refund of %s failed: %w", txID, err)
		}
	}
	if _, err := s.Repo.UpdateStatus(ctx, txID, models.PaymentPaid, models.PaymentRefunded, ""); err != nil {
		return err
	}
	s.logger().Info("payment refunded", zap.String("transactionId", txID), zap.Int64("amount", tx.Amount))
	return nil
}

func (s *DefaultPaymentService) LinkBooking(ctx context.Context, txID, bookingID string) error {
	return s.Repo.LinkBooking(ctx, txID, bookingID)
}

func (s *DefaultPaymentService) Get(ctx context.Context, txID string) (*models.Transaction, error) {
	return s.Repo.GetByID(ctx, txID)
}

func validateRequest(req InitiateRequest) error {
	if req.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidRequest)
	}
	if !req.Method.Valid() {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidRequest, req.Method)
	}
	if req.Method.IsWallet() && req.Amount > 0 && req.ContactNumber == "" {
		return fmt.Errorf("%w: %s requires a contact number", ErrInvalidRequest, req.Method)
	}
	return nil
}
