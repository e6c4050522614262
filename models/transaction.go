package models

import "time"

// PaymentMethod is how the customer settles a booking.
type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "CASH"
	PaymentJazzCash  PaymentMethod = "JAZZCASH"
	PaymentEasyPaisa PaymentMethod = "EASYPAISA"
	PaymentCard      PaymentMethod = "CARD"
)

// Valid reports whether m is a supported method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentJazzCash, PaymentEasyPaisa, PaymentCard:
		return true
	}
	return false
}

// IsWallet reports whether m is a mobile wallet that needs a contact number.
func (m PaymentMethod) IsWallet() bool {
	return m == PaymentJazzCash || m == PaymentEasyPaisa
}

// PaymentStatus is the settlement state of a transaction.
type PaymentStatus string

const (
	PaymentPaid                PaymentStatus = "PAID"
	PaymentUnpaid              PaymentStatus = "UNPAID"
	PaymentPendingVerification PaymentStatus = "PENDING_VERIFICATION"
	PaymentFailed              PaymentStatus = "FAILED"
	PaymentRefunded            PaymentStatus = "REFUNDED"
)

// Terminal reports whether no further provider check can change s.
func (s PaymentStatus) Terminal() bool {
	return s != PaymentPendingVerification
}

// Transaction records one payment initiation. PlatformFee and NetPayout are
// fixed at creation and NetPayout always equals Amount - PlatformFee.
type Transaction struct {
	ID             string        `bson:"id" json:"id"`
	BookingRef     string        `bson:"bookingRef" json:"bookingRef"`
	BookingID      string        `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Amount         int64         `bson:"amount" json:"amount"`
	Currency       string        `bson:"currency" json:"currency"`
	Provider       PaymentMethod `bson:"provider" json:"provider"`
	Status         PaymentStatus `bson:"status" json:"status"`
	PlatformFee    int64         `bson:"platformFee" json:"platformFee"`
	NetPayout      int64         `bson:"netPayout" json:"netPayout"`
	ReceiptURL     string        `bson:"receiptUrl,omitempty" json:"receiptUrl,omitempty"`
	ContactNumber  string        `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	PointsRedeemed int64         `bson:"pointsRedeemed" json:"pointsRedeemed"`
	PointsEarned   int64         `bson:"pointsEarned" json:"pointsEarned"`
	GatewayRef     string        `bson:"gatewayRef,omitempty" json:"-"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}
