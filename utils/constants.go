package utils

// Redis key prefixes shared by the booking components.
const (
	SlotHoldPrefix = "slot-hold:"
	AttemptPrefix  = "booking-attempt:"
)
