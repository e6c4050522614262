package bookingRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"glowhub/models"
)

// MemoryBookingRepo is a process-local BookingRepository.
type MemoryBookingRepo struct {
	mu     sync.Mutex
	byID   map[string]models.Booking
	active map[string]string // slot key -> booking id
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{
		byID:   make(map[string]models.Booking),
		active: make(map[string]string),
	}
}

func (r *MemoryBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if booking.Status == "" {
		booking.Status = models.BookingConfirmed
	}
	if booking.SlotKey == "" {
		booking.SlotKey = models.SlotKey(booking.ResourceID, booking.Date, booking.StartMinute, booking.StaffID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.active[booking.SlotKey]; taken {
		return ErrSlotTaken
	}
	if _, dup := r.byID[booking.ID]; dup {
		return fmt.Errorf("booking %s already exists", booking.ID)
	}
	r.byID[booking.ID] = *booking
	if booking.Status == models.BookingConfirmed {
		r.active[booking.SlotKey] = booking.ID
	}
	return nil
}

func (r *MemoryBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepo) ListActiveByResourceDate(ctx context.Context, resourceID, date string) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.byID {
		if b.ResourceID == resourceID && b.Date == date && b.Status != models.BookingCancelled {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out, nil
}

func (r *MemoryBookingRepo) Cancel(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok || b.Status != models.BookingConfirmed {
		return false, nil
	}
	b.Status = models.BookingCancelled
	b.UpdatedAt = time.Now()
	r.byID[id] = b
	delete(r.active, b.SlotKey)
	return true, nil
}
