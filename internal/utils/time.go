package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(layoutDate, strings.TrimSpace(s))
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// ValidHHMM reports whether s is a 24h clock time like "09:00".
func ValidHHMM(s string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}

// ParseClockMinutes converts "H:MM" or "HH:MM" into minutes. Hours may exceed
// 23 when the string is a duration rather than a clock time.
func ParseClockMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 {
		return 0, fmt.Errorf("malformed hours in %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed minutes in %q", s)
	}
	return h*60 + m, nil
}

// ArrivalTime derives the arrival clock time from a departure and a trip
// duration, wrapping past midnight.
func ArrivalTime(departure, duration string) (string, error) {
	dep, err := ParseClockMinutes(departure)
	if err != nil {
		return "", err
	}
	dur, err := ParseClockMinutes(duration)
	if err != nil {
		return "", err
	}
	total := (dep + dur) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}
