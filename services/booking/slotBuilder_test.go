package booking

import (
	"fmt"
	"testing"
	"time"

	"glowhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDaySlotsReferenceDay(t *testing.T) {
	slots, err := BuildDaySlots(models.DefaultShopSettings(), testDate, testNow, nil)
	require.NoError(t, err)
	require.Len(t, slots, 11)

	assert.Equal(t, "slot-2025-03-14-1000", slots[0].ID)
	assert.Equal(t, "10:00 AM", slots[0].Time)
	assert.Equal(t, "slot-2025-03-14-2000", slots[10].ID)
	assert.Equal(t, "08:00 PM", slots[10].Time)

	for _, s := range slots {
		hour := s.Start / 60
		assert.Equal(t, hour == 13, s.IsBreak, s.ID)
		assert.Equal(t, hour >= 17 && hour <= 20, s.IsPeak, s.ID)
		assert.Equal(t, !s.IsBreak, s.Available, s.ID)
		assert.Equal(t, s.Start+60, s.End, s.ID)
	}
}

func TestBuildDaySlotsCountMatchesOpeningHours(t *testing.T) {
	for open := 0; open < 23; open++ {
		for closing := open + 1; closing <= 24; closing++ {
			settings := models.ShopSettings{
				OpeningTime:     fmt.Sprintf("%02d:00", open),
				ClosingTime:     fmt.Sprintf("%02d:00", closing),
				SlotDurationMin: 60,
			}
			slots, err := BuildDaySlots(settings, testDate, testNow, nil)
			require.NoError(t, err)
			require.Len(t, slots, closing-open, "%02d-%02d", open, closing)

			for i := 1; i < len(slots); i++ {
				assert.Less(t, slots[i-1].Start, slots[i].Start, "slots ascend")
			}
		}
	}
}

func TestBuildDaySlotsPastCutoff(t *testing.T) {
	settings := models.DefaultShopSettings()

	t.Run("mid-afternoon today", func(t *testing.T) {
		now := time.Date(2025, 3, 14, 14, 30, 0, 0, time.UTC)
		slots, err := BuildDaySlots(settings, testDate, now, nil)
		require.NoError(t, err)
		for _, s := range slots {
			if s.Start <= 14*60 {
				assert.False(t, s.Available, s.ID)
			} else {
				assert.True(t, s.Available, s.ID)
			}
		}
	})

	t.Run("slot starting now is past", func(t *testing.T) {
		now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
		slots, err := BuildDaySlots(settings, testDate, now, nil)
		require.NoError(t, err)
		for _, s := range slots {
			if s.Start == 15*60 {
				assert.False(t, s.Available)
			}
			if s.Start == 16*60 {
				assert.True(t, s.Available)
			}
		}
	})

	t.Run("past date", func(t *testing.T) {
		slots, err := BuildDaySlots(settings, "2025-03-13", testNow, nil)
		require.NoError(t, err)
		require.Len(t, slots, 11)
		for _, s := range slots {
			assert.False(t, s.Available, s.ID)
		}
	})

	t.Run("future date", func(t *testing.T) {
		now := time.Date(2025, 3, 13, 23, 0, 0, 0, time.UTC)
		slots, err := BuildDaySlots(settings, testDate, now, nil)
		require.NoError(t, err)
		for _, s := range slots {
			assert.Equal(t, !s.IsBreak, s.Available, s.ID)
		}
	})
}

func TestBuildDaySlotsOccupied(t *testing.T) {
	slots, err := BuildDaySlots(models.DefaultShopSettings(), testDate, testNow, map[int]bool{17 * 60: true})
	require.NoError(t, err)
	for _, s := range slots {
		if s.Start == 17*60 {
			assert.False(t, s.Available)
			assert.True(t, s.IsPeak, "peak flag is independent of availability")
		}
	}
}

func TestBuildDaySlotsDurationAndBuffer(t *testing.T) {
	settings := models.ShopSettings{
		OpeningTime:     "09:00",
		ClosingTime:     "12:00",
		SlotDurationMin: 45,
		BufferTimeMin:   15,
	}
	slots, err := BuildDaySlots(settings, testDate, testNow.Add(-2*time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, []int{540, 600, 660}, []int{slots[0].Start, slots[1].Start, slots[2].Start})
	assert.Equal(t, 705, slots[2].End)
	assert.Equal(t, "slot-2025-03-14-1100", slots[2].ID)
}

func TestBuildDaySlotsDynamicPricingDisabled(t *testing.T) {
	settings := models.DefaultShopSettings()
	settings.DynamicPricingEnabled = false

	slots, err := BuildDaySlots(settings, testDate, testNow, nil)
	require.NoError(t, err)
	for _, s := range slots {
		assert.False(t, s.IsPeak, s.ID)
	}
}

func TestBuildDaySlotsRejectsBadSettings(t *testing.T) {
	settings := models.DefaultShopSettings()
	settings.OpeningTime = "ten"
	_, err := BuildDaySlots(settings, testDate, testNow, nil)
	assert.Error(t, err)

	settings = models.DefaultShopSettings()
	settings.PeakWindows = []models.TimeWindow{{Start: "17:00", End: "late"}}
	_, err = BuildDaySlots(settings, testDate, testNow, nil)
	assert.Error(t, err)

	// Overnight hours are not supported.
	settings = models.DefaultShopSettings()
	settings.OpeningTime = "22:00"
	settings.ClosingTime = "02:00"
	_, err = BuildDaySlots(settings, testDate, testNow, nil)
	assert.Error(t, err)

	settings = models.DefaultShopSettings()
	settings.ClosingTime = settings.OpeningTime
	_, err = BuildDaySlots(settings, testDate, testNow, nil)
	assert.Error(t, err)
}
