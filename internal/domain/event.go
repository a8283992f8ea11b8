package domain

import (
	"fmt"
	"time"
)

// DayFormat is the canonical calendar-day key, local wall clock.
const DayFormat = "2006-01-02"

const minutesPerDay = 24 * 60

// Event is one recorded activity start within a day. Day always agrees with
// the date component of StartedAt for stored events.
type Event struct {
	ID         string
	CategoryID string
	Day        string
	StartedAt  time.Time
}

// MinutesSinceMidnight returns the wall-clock minute of the event's instant.
func (e Event) MinutesSinceMidnight() int {
	return e.StartedAt.Hour()*60 + e.StartedAt.Minute()
}

// ParseDay validates and normalises a day key.
func ParseDay(value string) (string, error) {
	t, err := time.ParseInLocation(DayFormat, value, time.Local)
	if err != nil {
		return "", fmt.Errorf("%w: invalid day %q", ErrValidation, value)
	}
	return t.Format(DayFormat), nil
}
