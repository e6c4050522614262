package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used throughout the booking core.
const DateLayout = "2006-01-02"

// ParseClock converts "HH:MM" into minutes from midnight. "24:00" is accepted as end of day.
func ParseClock(s string) (int, error) {
	t := strings.TrimSpace(s)
	var h, m int
	if _, err := fmt.Sscanf(t, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as "HHMM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d%02d", minutes/60, minutes%60)
}

// FormatClockLabel renders minutes from midnight as a 12-hour label, e.g. "05:00 PM".
func FormatClockLabel(minutes int) string {
	h, m := minutes/60, minutes%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, m, suffix)
}

// ParseDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp and returns the
// calendar date as written, without any time-zone conversion.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return "", fmt.Errorf("invalid date %q: %w", s, err)
		}
		s = s[:len(DateLayout)]
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return s, nil
}
