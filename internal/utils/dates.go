package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for storage keys and query parameters.
const DateLayout = "2006-01-02"

// LoadLocation resolves a timezone name, falling back to UTC for empty or unknown names.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// CalendarDaysBetween counts calendar-day boundaries between from and to in loc.
// It is negative when to falls on an earlier day than from. Daylight saving shifts
// do not affect the result.
func CalendarDaysBetween(from, to time.Time, loc *time.Location) int {
	f := from.In(loc)
	t := to.In(loc)
	fromDay := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d, nil
}

// DateKey maps t's calendar day, read in t's own location, to UTC midnight. Storage keys
// for per-day records use it so the stored date never shifts with the server timezone.
func DateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateOrToday parses value as a date in loc, or returns the start of today when value is empty.
func DateOrToday(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if value == "" {
		return StartOfDay(now, loc), nil
	}
	return ParseDate(value, loc)
}
