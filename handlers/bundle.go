package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers registered by routes.
type HandlerBundle struct {
	// Slot and booking endpoints
	GetAvailableSlots gin.HandlerFunc
	QuoteBooking      gin.HandlerFunc
	StartAttempt      gin.HandlerFunc
	GetAttempt        gin.HandlerFunc
	CancelAttempt     gin.HandlerFunc
	GetBooking        gin.HandlerFunc
	CancelBooking     gin.HandlerFunc

	// Payment endpoints
	GetPaymentStatus gin.HandlerFunc
	GetReceipt       gin.HandlerFunc

	// User endpoints
	GetUserPoints gin.HandlerFunc
}

// NewHandlerBundle wires every endpoint of the booking and payment handlers.
func NewHandlerBundle(bh *BookingHandler, ph *PaymentHandler) *HandlerBundle {
	return &HandlerBundle{
		GetAvailableSlots: bh.GetAvailableSlots,
		QuoteBooking:      bh.QuoteBooking,
		StartAttempt:      bh.StartAttempt,
		GetAttempt:        bh.GetAttempt,
		CancelAttempt:     bh.CancelAttempt,
		GetBooking:        bh.GetBooking,
		CancelBooking:     bh.CancelBooking,

		GetPaymentStatus: ph.GetPaymentStatus,
		GetReceipt:       ph.GetReceipt,
		GetUserPoints:    ph.GetUserPoints,
	}
}
