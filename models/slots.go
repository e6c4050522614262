package models

// TimeSlot is one bookable position in a resource's day grid. Slots are
// derived on every query and never persisted.
type TimeSlot struct {
	ID        string `json:"id"`        // e.g. "slot-2025-03-14-1700"
	Time      string `json:"time"`      // e.g. "05:00 PM"
	Start     int    `json:"start"`     // minutes from midnight
	End       int    `json:"end"`       // minutes from midnight
	Available bool   `json:"available"` // !booked && !isBreak && !past
	IsBreak   bool   `json:"isBreak"`
	IsPeak    bool   `json:"isPeak"`
}

// TimeWindow is a half-open [Start, End) clock interval, "HH:MM".
type TimeWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// ShopSettings is the per-resource scheduling configuration. Read-only to the booking core.
type ShopSettings struct {
	OpeningTime           string       `bson:"openingTime" json:"openingTime"`
	ClosingTime           string       `bson:"closingTime" json:"closingTime"`
	SlotDurationMin       int          `bson:"slotDurationMin" json:"slotDurationMin"`
	BufferTimeMin         int          `bson:"bufferTimeMin" json:"bufferTimeMin"`
	DynamicPricingEnabled bool         `bson:"dynamicPricingEnabled" json:"dynamicPricingEnabled"`
	PeakHourMultiplier    float64      `bson:"peakHourMultiplier" json:"peakHourMultiplier"`
	BreakWindows          []TimeWindow `bson:"breakWindows,omitempty" json:"breakWindows,omitempty"`
	PeakWindows           []TimeWindow `bson:"peakWindows,omitempty" json:"peakWindows,omitempty"`
	Timezone              string       `bson:"timezone,omitempty" json:"timezone,omitempty"`
}

// DefaultShopSettings mirrors the reference salon day: 10:00-21:00 hourly,
// lunch break at 13:00 and peak pricing from 17:00 until close.
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		OpeningTime:           "10:00",
		ClosingTime:           "21:00",
		SlotDurationMin:       60,
		BufferTimeMin:         0,
		DynamicPricingEnabled: true,
		PeakHourMultiplier:    1.2,
		BreakWindows:          []TimeWindow{{Start: "13:00", End: "14:00"}},
		PeakWindows:           []TimeWindow{{Start: "17:00", End: "21:00"}},
	}
}
