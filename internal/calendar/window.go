package calendar

import (
	"time"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
)

// Window is the calendar period currently on screen: a reference date and a mode.
//
// Windows are values. Navigation returns a new Window and never mutates the
// receiver, so a Window can be attached to a fetch and compared later.
type Window struct {
	ReferenceDate time.Time
	Mode          Mode

	// anchorDay is the day-of-month the user navigated from. Month steps clamp
	// to shorter months but keep the anchor, so Jan 31 -> Feb 29 -> Jan 31.
	anchorDay int
}

// NewWindow creates a window anchored at ref, truncated to midnight.
func NewWindow(ref time.Time, mode Mode) Window {
	if mode != ModeWeek {
		mode = ModeMonth
	}
	ref = dateutil.TruncateToDay(ref)
	return Window{ReferenceDate: ref, Mode: mode, anchorDay: ref.Day()}
}

// Range returns the half-open interval [start, end) used to fetch sessions:
// first of month to first of next month, or Monday to the following Monday.
func (w Window) Range() (start, end time.Time) {
	if w.Mode == ModeWeek {
		monday, _ := dateutil.WeekRange(w.ReferenceDate)
		return monday, dateutil.AddDays(monday, 7)
	}
	return dateutil.MonthRange(w.ReferenceDate)
}

// Contains reports whether t falls inside the window's range.
func (w Window) Contains(t time.Time) bool {
	start, end := w.Range()
	return !t.Before(start) && t.Before(end)
}

// Cells builds the grid for the window.
func (w Window) Cells() []Cell {
	return BuildGrid(w.ReferenceDate, w.Mode)
}

// Next advances by one month or seven days.
func (w Window) Next() Window {
	return w.shift(1)
}

// Previous moves back by one month or seven days.
func (w Window) Previous() Window {
	return w.shift(-1)
}

// WithMode switches mode and keeps the reference date.
func (w Window) WithMode(mode Mode) Window {
	w.Mode = mode
	return w
}

// Today returns a window of the same mode anchored at now.
func (w Window) Today(now time.Time) Window {
	return NewWindow(now, w.Mode)
}

// Focus returns the same window re-anchored on day, keeping the mode.
func (w Window) Focus(day time.Time) Window {
	return NewWindow(day, w.Mode)
}

// Equal reports whether both windows show the same period anchored the same way.
func (w Window) Equal(other Window) bool {
	return w.Mode == other.Mode && w.ReferenceDate.Equal(other.ReferenceDate)
}

func (w Window) shift(step int) Window {
	if w.Mode == ModeWeek {
		ref := dateutil.AddDays(w.ReferenceDate, 7*step)
		return Window{ReferenceDate: ref, Mode: w.Mode, anchorDay: ref.Day()}
	}

	anchor := w.anchorDay
	if anchor == 0 {
		anchor = w.ReferenceDate.Day()
	}
	// Month arithmetic on year and month values; day 1 keeps time.Date from
	// overflowing into the month after the target.
	year, month, _ := w.ReferenceDate.Date()
	loc := w.ReferenceDate.Location()
	target := time.Date(year, month+time.Month(step), 1, 12, 0, 0, 0, loc)
	day := min(anchor, dateutil.DaysIn(target.Year(), target.Month()))
	return Window{
		ReferenceDate: dateutil.StartOfDay(target.Year(), target.Month(), day, loc),
		Mode:          w.Mode,
		anchorDay:     anchor,
	}
}
