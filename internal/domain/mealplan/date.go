// Package mealplan models planned meals: calendar days, lunch and dinner
// slots, persisted plan entries and the calendar view built from them.
package mealplan

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-day format used on every boundary
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Date identifies a calendar day as YYYY-MM-DD. It is never an instant, so
// two parties in different time zones agree on which day an entry is on.
type Date string

// ParseDate validates and normalizes an ISO date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date(fmt.Sprintf("%04d-%02d-%02d", y, int(m), d))
}

// Time returns midnight UTC of the day
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// AddDays moves the date by n days, n may be negative
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is an earlier day than other
func (d Date) Before(other Date) bool {
	return d < other
}

// Weekday returns the day of week
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) String() string {
	return string(d)
}

// DaysBetween returns the number of calendar days from start to end,
// negative when end is before start
func DaysBetween(start, end Date) int {
	return int((end.Time().Unix() - start.Time().Unix()) / secondsPerDay)
}

// Range returns every day from start to end inclusive. An inverted range
// is empty.
func Range(start, end Date) []Date {
	if end.Before(start) {
		return []Date{}
	}
	days := DaysBetween(start, end) + 1
	dates := make([]Date, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

// StartOfWeek returns the latest day on or before d whose weekday is
// weekStartsOn
func StartOfWeek(d Date, weekStartsOn time.Weekday) Date {
	diff := (int(d.Weekday()) - int(weekStartsOn) + 7) % 7
	return d.AddDays(-diff)
}
