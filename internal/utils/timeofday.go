package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// FormatTimeOfDay renders seconds after midnight as HH:MM. Hours wrap at 24,
// so 25:10:00 on a late trip prints as 01:10.
func FormatTimeOfDay(seconds int) string {
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// FormatOptionalTimeOfDay is FormatTimeOfDay for possibly unknown times.
func FormatOptionalTimeOfDay(seconds *int) string {
	if seconds == nil {
		return ""
	}
	return FormatTimeOfDay(*seconds)
}

// ParseTimeOfDay parses HH:MM (hours up to 47 for after-midnight service)
// into seconds after midnight.
func ParseTimeOfDay(value string) (int, error) {
	hh, mm, ok := strings.Cut(value, ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 || !isDigits(hh) || !isDigits(mm) {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 47 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hours*3600 + minutes*60, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParseDate parses YYYY-MM-DD as a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("date cannot be empty")
	}
	return time.Parse(dateLayout, value)
}

// FormatDate renders t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
