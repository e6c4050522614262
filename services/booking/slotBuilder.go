package booking

import (
	"fmt"
	"time"

	"glowhub/models"
	"glowhub/utils"
)

const defaultSlotDurationMin = 60

// dayGrid is ShopSettings resolved to minutes from midnight.
type dayGrid struct {
	open, close int
	duration    int
	step        int
	breaks      [][2]int
	peaks       [][2]int
	dynamic     bool
}

func resolveGrid(s models.ShopSettings) (dayGrid, error) {
	open, err := utils.ParseClock(s.OpeningTime)
	if err != nil {
		return dayGrid{}, fmt.Errorf("opening time: %w", err)
	}
	closing, err := utils.ParseClock(s.ClosingTime)
	if err != nil {
		return dayGrid{}, fmt.Errorf("closing time: %w", err)
	}
	if closing <= open {
		return dayGrid{}, fmt.Errorf("closing time %s is not after opening time %s", s.ClosingTime, s.OpeningTime)
	}
	duration := s.SlotDurationMin
	if duration <= 0 {
		duration = defaultSlotDurationMin
	}
	buffer := s.BufferTimeMin
	if buffer < 0 {
		buffer = 0
	}

	g := dayGrid{
		open:     open,
		close:    closing,
		duration: duration,
		step:     duration + buffer,
		dynamic:  s.DynamicPricingEnabled,
	}
	if g.breaks, err = resolveWindows(s.BreakWindows); err != nil {
		return dayGrid{}, fmt.Errorf("break window: %w", err)
	}
	if g.peaks, err = resolveWindows(s.PeakWindows); err != nil {
		return dayGrid{}, fmt.Errorf("peak window: %w", err)
	}
	return g, nil
}

func resolveWindows(ws []models.TimeWindow) ([][2]int, error) {
	out := make([][2]int, 0, len(ws))
	for _, w := range ws {
		start, err := utils.ParseClock(w.Start)
		if err != nil {
			return nil, err
		}
		end, err := utils.ParseClock(w.End)
		if err != nil {
			return nil, err
		}
		out = append(out, [2]int{start, end})
	}
	return out, nil
}

func inWindows(minute int, windows [][2]int) bool {
	for _, w := range windows {
		if minute >= w[0] && minute < w[1] {
			return true
		}
	}
	return false
}

// SlotID is the deterministic id of the slot starting at minute on date.
func SlotID(date string, minute int) string {
	return fmt.Sprintf("slot-%s-%s", date, utils.FormatClock(minute))
}

// BuildDaySlots lays out the day grid for date and flags each slot. now must
// already be in the resource's time zone; occupied holds the start minutes
// that are booked or held. Slots are returned in ascending start order.
func BuildDaySlots(settings models.ShopSettings, date string, now time.Time, occupied map[int]bool) ([]models.TimeSlot, error) {
	g, err := resolveGrid(settings)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation(utils.DateLayout, date, now.Location())
	if err != nil {
		return nil, err
	}

	slots := make([]models.TimeSlot, 0, (g.close-g.open)/g.step+1)
	for start := g.open; start+g.duration <= g.close; start += g.step {
		slotStart := day.Add(time.Duration(start) * time.Minute)
		past := !slotStart.After(now)
		isBreak := inWindows(start, g.breaks)
		booked := occupied[start]

		slots = append(slots, models.TimeSlot{
			ID:        SlotID(date, start),
			Time:      utils.FormatClockLabel(start),
			Start:     start,
			End:       start + g.duration,
			Available: !booked && !isBreak && !past,
			IsBreak:   isBreak,
			IsPeak:    g.dynamic && inWindows(start, g.peaks),
		})
	}
	return slots, nil
}
