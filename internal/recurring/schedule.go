package recurring

import (
	"errors"
	"fmt"
	"time"

	"paisable-backend/internal/models"
)

var ErrUnsupportedFrequency = errors.New("unsupported frequency")

// NextDueDate returns base advanced by exactly one period of freq:
// +1 day, +7 days, +1 calendar month or +1 calendar year. Month and year
// addition clamp the day to the target month's length, so the last day of
// January rolls to the last day of February rather than overflowing into
// March.
func NextDueDate(base time.Time, freq models.Frequency) (time.Time, error) {
	switch freq {
	case models.FrequencyDaily:
		return base.AddDate(0, 0, 1), nil
	case models.FrequencyWeekly:
		return base.AddDate(0, 0, 7), nil
	case models.FrequencyMonthly:
		return addCalendar(base, 0, 1), nil
	case models.FrequencyAnnually:
		return addCalendar(base, 1, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, freq)
	}
}

func addCalendar(t time.Time, years, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Normalize the target month before clamping the day against it.
	first := time.Date(year+years, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseFrequency validates a client-supplied frequency tag.
func ParseFrequency(s string) (models.Frequency, error) {
	switch models.Frequency(s) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyAnnually:
		return models.Frequency(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFrequency, s)
	}
}
