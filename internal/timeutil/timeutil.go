// Package timeutil holds the interval and calendar math the availability
// engine is built on. All intervals are half-open: [start, end).
package timeutil

import (
	"fmt"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
)

// IsValidTimezone reports whether id names a loadable IANA timezone.
// Never returns an error; an empty id is not a valid timezone.
func IsValidTimezone(id string) bool {
	if id == "" {
		return false
	}
	_, err := time.LoadLocation(id)
	return err == nil
}

// ToAbsolute parses an RFC3339 timestamp into an absolute instant.
func ToAbsolute(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDateTime, value)
	}
	return t, nil
}

// DayBounds returns the [midnight, midnight+1d) window of the calendar day
// on which date falls as observed in tz. The end bound is built with AddDate
// in the location, so the window stays correct on DST-transition days where
// the day is not 24 hours long.
func DayBounds(date time.Time, tz string) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, tz)
	}
	local := date.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}

// OperatingWindow returns the [openHour:00, closeHour:00) window of date's
// calendar day in tz. Hours are anchored with time.Date in the location
// rather than offsets from midnight, which would drift across DST changes.
func OperatingWindow(date time.Time, tz string, openHour, closeHour int) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, tz)
	}
	local := date.In(loc)
	open := time.Date(local.Year(), local.Month(), local.Day(), openHour, 0, 0, 0, loc)
	closing := time.Date(local.Year(), local.Month(), local.Day(), closeHour, 0, 0, 0, loc)
	return open, closing, nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
