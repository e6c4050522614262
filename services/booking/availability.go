package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "glowhub/database/repository/booking"
	resourceRepo "glowhub/database/repository/resource"
	"glowhub/metrics"
	"glowhub/models"
	"glowhub/utils"

	"go.uber.org/zap"
)

// DefaultSlotEngine computes availability from resource settings, confirmed
// bookings and live payment holds. Results are never cached.
type DefaultSlotEngine struct {
	Resources resourceRepo.ResourceRepository
	Bookings  bookingRepo.BookingRepository
	Holds     SlotHolder // optional
	Clock     func() time.Time
	Metrics   *metrics.BookingMetrics
	Logger    *zap.Logger
}

func (e *DefaultSlotEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e *DefaultSlotEngine) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

// GetAvailableSlots returns the day's slots for resourceID in ascending order.
// With a staffID only that staff member's bookings make a slot unavailable;
// without one any booking at that time does.
func (e *DefaultSlotEngine) GetAvailableSlots(ctx context.Context, resourceID, date, staffID string) ([]models.TimeSlot, error) {
	slots, _, err := e.daySlots(ctx, resourceID, date, staffID)
	if err != nil {
		status := ErrorCode(err)
		if status == "" {
			status = "error"
		}
		e.Metrics.ObserveSlotQuery(status)
		return nil, err
	}
	e.Metrics.ObserveSlotQuery("ok")
	return slots, nil
}

// daySlots is GetAvailableSlots that also returns the resolved resource.
func (e *DefaultSlotEngine) daySlots(ctx context.Context, resourceID, date, staffID string) ([]models.TimeSlot, *models.Resource, error) {
	res, err := e.Resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrNotFound) {
			return nil, nil, newError(CodeResourceNotFound, "no resource with id "+resourceID, nil)
		}
		return nil, nil, err
	}
	if res.Settings == nil {
		return nil, nil, newError(CodeResourceNotFound, "resource "+resourceID+" has no shop settings", nil)
	}

	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, nil, newError(CodeInvalidSelection, "date must be YYYY-MM-DD", err)
	}

	now := e.now()
	if res.Settings.Timezone != "" {
		loc, err := time.LoadLocation(res.Settings.Timezone)
		if err != nil {
			e.logger().Warn("unknown resource time zone, using server time",
				zap.String("resourceId", resourceID), zap.String("timezone", res.Settings.Timezone))
		} else {
			now = now.In(loc)
		}
	}

	occupied, err := e.occupied(ctx, resourceID, day, staffID)
	if err != nil {
		return nil, nil, err
	}

	slots, err := BuildDaySlots(*res.Settings, day, now, occupied)
	if err != nil {
		return nil, nil, newError(CodeResourceNotFound, "resource "+resourceID+" has invalid shop settings", err)
	}

	if e.Holds != nil {
		if err := e.applyHolds(ctx, res, day, staffID, slots); err != nil {
			// Holds only narrow availability further; the CAS write still guards the slot.
			e.logger().Warn("slot hold lookup failed", zap.String("resourceId", resourceID), zap.Error(err))
		}
	}
	return slots, res, nil
}

func (e *DefaultSlotEngine) occupied(ctx context.Context, resourceID, date, staffID string) (map[int]bool, error) {
	bookings, err := e.Bookings.ListActiveByResourceDate(ctx, resourceID, date)
	if err != nil {
		return nil, err
	}
	occupied := make(map[int]bool, len(bookings))
	for _, b := range bookings {
		if staffID != "" && b.StaffID != staffID {
			continue
		}
		occupied[b.StartMinute] = true
	}
	return occupied, nil
}

// applyHolds marks held slots unavailable. A resource-wide query also
// honours holds taken on any individual staff member.
func (e *DefaultSlotEngine) applyHolds(ctx context.Context, res *models.Resource, date, staffID string, slots []models.TimeSlot) error {
	owners := []string{staffID}
	if staffID == "" {
		for _, st := range res.Staff {
			owners = append(owners, st.ID)
		}
	}

	keys := make([]string, 0, len(slots)*len(owners))
	for _, s := range slots {
		for _, owner := range owners {
			keys = append(keys, models.SlotKey(res.ID, date, s.Start, owner))
		}
	}
	held, err := e.Holds.Held(ctx, keys)
	if err != nil {
		return err
	}
	for i := range slots {
		for _, owner := range owners {
			if held[models.SlotKey(res.ID, date, slots[i].Start, owner)] {
				slots[i].Available = false
				break
			}
		}
	}
	return nil
}
