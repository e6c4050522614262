package bookingRepo

import (
	"context"
	"errors"

	"glowhub/models"
)

var (
	// ErrNotFound is returned when no booking has the requested id.
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken is returned by Create when another confirmed booking already holds the slot key.
	ErrSlotTaken = errors.New("slot already booked")
)

// BookingRepository persists confirmed bookings. Create is a compare-and-set
// on the booking's slot key: at most one CONFIRMED booking exists per key.
type BookingRepository interface {
	// Create inserts a CONFIRMED booking or fails with ErrSlotTaken.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking or fails with ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListActiveByResourceDate returns the non-cancelled bookings of a resource on a date.
	ListActiveByResourceDate(ctx context.Context, resourceID, date string) ([]models.Booking, error)
	// Cancel moves a CONFIRMED booking to CANCELLED. It reports false when the
	// booking does not exist or was already cancelled.
	Cancel(ctx context.Context, id string) (bool, error)
}
