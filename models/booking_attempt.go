package models

import "time"

// AttemptState is a step of the booking attempt state machine.
type AttemptState string

const (
	StateSelecting           AttemptState = "SELECTING"
	StatePricing             AttemptState = "PRICING"
	StatePaymentInitiated    AttemptState = "PAYMENT_INITIATED"
	StatePendingVerification AttemptState = "PENDING_VERIFICATION"
	StatePaid                AttemptState = "PAID"
	StateFailed              AttemptState = "FAILED"
	StateFinalizing          AttemptState = "FINALIZING"
	StateConfirmed           AttemptState = "CONFIRMED"
	StateCancelled           AttemptState = "CANCELLED"
	StateError               AttemptState = "ERROR"
)

// Terminal reports whether the attempt has finished.
func (s AttemptState) Terminal() bool {
	switch s {
	case StateConfirmed, StateCancelled, StateError:
		return true
	}
	return false
}

// BookingRequest is the customer's selection for one booking attempt.
type BookingRequest struct {
	ResourceID    string        `json:"resourceId" binding:"required"`
	ServiceID     string        `json:"serviceId" binding:"required"`
	StaffID       string        `json:"staffId,omitempty"`
	UserID        string        `json:"userId,omitempty"`
	Date          string        `json:"date" binding:"required"`
	SlotID        string        `json:"slotId" binding:"required"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	ContactNumber string        `json:"contactNumber,omitempty"`
	PromoCode     string        `json:"promoCode,omitempty"`
	RedeemPoints  bool          `json:"redeemPoints,omitempty"`
}

// AttemptError is the serialisable failure of an attempt.
type AttemptError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BookingAttempt is the snapshot of one run through the booking flow.
type BookingAttempt struct {
	ID            string          `json:"id"`
	State         AttemptState    `json:"state"`
	Request       BookingRequest  `json:"request"`
	Quote         *PriceBreakdown `json:"quote,omitempty"`
	TransactionID string          `json:"transactionId,omitempty"`
	PaymentStatus PaymentStatus   `json:"paymentStatus,omitempty"`
	Message       string          `json:"message,omitempty"`
	BookingID     string          `json:"bookingId,omitempty"`
	Error         *AttemptError   `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
