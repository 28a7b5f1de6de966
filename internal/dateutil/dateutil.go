// Package dateutil provides date parsing and calendar arithmetic utilities.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidClockFormat = errors.New("time must be in HH:MM format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange represents a validated, inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange with validation.
// startDate can be empty (defaults to today) or in YYYY-MM-DD format.
// endDate can be empty (defaults to startDate) or in YYYY-MM-DD format.
func NewDateRange(startDate, endDate string) (*DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = ParseDate(endDate)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// ParseDate parses a date string in YYYY-MM-DD format as local midnight.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	return parseDay(s, time.Local)
}

// ParseClock parses "HH:MM" and returns hours and minutes.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 {
		return 0, 0, ErrInvalidClockFormat
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, ErrInvalidClockFormat
	}
	return t.Hour(), t.Minute(), nil
}

// At returns the instant on day's calendar date at hour:minute in day's location.
// A wall time skipped by a midnight daylight saving change is measured from
// the start of the day instead, so the result stays on day's date.
func At(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	t := time.Date(y, m, d, hour, minute, 0, 0, day.Location())
	if !onDate(t, y, m, d) {
		return StartOfDay(y, m, d, day.Location()).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	return t
}

// TruncateToDay returns the first instant of t's calendar date.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return StartOfDay(y, m, d, t.Location())
}

// StartOfDay returns the first instant of the calendar date y-m-d in loc.
// Out-of-range days normalize the way time.Date does (June 31 is July 1).
//
// This is midnight except where a daylight saving change skips it, as in
// America/Havana or America/Santiago. time.Date resolves a skipped midnight
// to 23:00 of the previous day; the first instant of the date is the change
// itself.
func StartOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	// Noon exists on every date, so it names the normalized date safely.
	ny, nm, nd := time.Date(y, m, d, 12, 0, 0, 0, loc).Date()
	t := time.Date(ny, nm, nd, 0, 0, 0, 0, loc)
	// Zone offsets are whole quarter hours.
	for i := 0; i < 4*24 && !onDate(t, ny, nm, nd); i++ {
		t = t.Add(15 * time.Minute)
	}
	return t
}

// AddDays returns the start of the calendar date n days after t's date.
// Use it instead of AddDate for day-granular values: AddDate keeps the wall
// clock, which does not exist on every date.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return StartOfDay(y, m, d+n, t.Location())
}

func onDate(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}

// SameDay reports whether a and b share year, month and day-of-month.
// Both are compared in their own locations.
func SameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

// ISOWeekday returns the ISO weekday number of t: Monday=1 through Sunday=7.
func ISOWeekday(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return weekday
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	monday = AddDays(t, -(ISOWeekday(t) - 1))
	sunday = AddDays(monday, 6)
	return monday, sunday
}

// MonthRange returns the first day of the month containing t and the first
// day of the following month.
func MonthRange(t time.Time) (first, firstOfNext time.Time) {
	first = StartOfDay(t.Year(), t.Month(), 1, t.Location())
	return first, StartOfDay(t.Year(), t.Month()+1, 1, t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive. Past absolute dates are accepted so that
// sessions can be logged after the fact.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return AddDays(today, 1), nil
	case "yesterday":
		return AddDays(today, -1), nil
	case "next-week":
		return AddDays(today, 7), nil
	}

	if strings.HasPrefix(input, "next-") {
		if targetDay, ok := weekdayMap[strings.TrimPrefix(input, "next-")]; ok {
			return nextWeekday(today, targetDay), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	return parseDay(input, relativeTo.Location())
}

// parseDay parses YYYY-MM-DD and returns the start of that date in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return StartOfDay(t.Year(), t.Month(), t.Day(), loc), nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return AddDays(today, daysUntil)
}
