package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "glowhub/database/repository/booking"
	"glowhub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmBooking writes draft as a CONFIRMED booking and returns its id.
// The write fails with a SLOT_UNAVAILABLE error wrapping
// bookingRepo.ErrSlotTaken when the slot key is already confirmed.
func (o *DefaultBookingOrchestrator) ConfirmBooking(ctx context.Context, draft models.Booking) (string, error) {
	if draft.ID == "" {
		draft.ID = fmt.Sprintf("BK-%s", uuid.NewString())
	}
	if draft.SlotKey == "" {
		draft.SlotKey = models.SlotKey(draft.ResourceID, draft.Date, draft.StartMinute, draft.StaffID)
	}
	now := time.Now()
	draft.Status = models.BookingConfirmed
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := o.Bookings.Create(ctx, &draft); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return "", newError(CodeSlotUnavailable, "slot was booked by someone else", err)
		}
		return "", fmt.Errorf("failed to save booking: %w", err)
	}
	return draft.ID, nil
}

// CancelBooking cancels a confirmed booking. It reports false when the
// booking is unknown or already cancelled, so repeated calls are safe.
func (o *DefaultBookingOrchestrator) CancelBooking(ctx context.Context, bookingID string) (bool, error) {
	cancelled, err := o.Bookings.Cancel(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if cancelled {
		o.logger().Info("booking cancelled", zap.String("bookingId", bookingID))
	}
	return cancelled, nil
}

func (o *DefaultBookingOrchestrator) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return o.Bookings.GetByID(ctx, bookingID)
}
