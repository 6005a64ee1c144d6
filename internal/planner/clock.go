package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClockMinutes converts a GTFS clock string ("H:MM" or "H:MM:SS") to
// minutes since midnight. Hours of 24 and above are valid: feeds encode
// post-midnight service on the previous service day that way.
func ParseClockMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time out of range %q", s)
	}
	return h*60 + m, nil
}

// MinutesOrZero applies the permissive parse policy: a malformed clock value
// counts as minute 0 instead of failing the record. Callers that want to
// reject bad values use ParseClockMinutes directly.
func MinutesOrZero(s string) int {
	mins, err := ParseClockMinutes(s)
	if err != nil {
		return 0
	}
	return mins
}

// FormatMinutes renders minutes since midnight as "HH:MM". Values past 24:00
// keep their feed-style hour (e.g. 1450 -> "24:10").
func FormatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// TruncateClock reduces "H:MM:SS" to "H:MM" for display. Values already in
// "H:MM" form pass through unchanged.
func TruncateClock(s string) string {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return s
	}
	return parts[0] + ":" + parts[1]
}
