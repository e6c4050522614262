package booking

import (
	"context"

	"glowhub/models"
)

// SlotEngine derives a resource's bookable slots for one day.
type SlotEngine interface {
	GetAvailableSlots(ctx context.Context, resourceID, date, staffID string) ([]models.TimeSlot, error)
}

// BookingOrchestrator drives one booking attempt from selection to confirmation.
type BookingOrchestrator interface {
	// Quote prices a selection without touching payment.
	Quote(ctx context.Context, req models.BookingRequest) (*models.PriceBreakdown, error)
	// Run executes the attempt synchronously. observe, if non-nil, receives
	// every state change of the attempt.
	Run(ctx context.Context, attemptID string, req models.BookingRequest, observe func(models.BookingAttempt)) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, draft models.Booking) (string, error)
	CancelBooking(ctx context.Context, bookingID string) (bool, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
}
