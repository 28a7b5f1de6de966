// Package calendar lays out month and week grids and places sessions in them.
//
// Everything in this package is pure: no I/O, no reads of the wall clock.
// Callers supply reference dates and "now" explicitly.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
)

// ErrInvalidMode is returned when a view mode name is not recognised.
var ErrInvalidMode = errors.New("mode must be 'month' or 'week'")

// Mode is the calendar view granularity.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
)

// MonthGridCells is the fixed size of a month grid: six Monday-first rows.
const MonthGridCells = 42

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMonth:
		return ModeMonth, nil
	case ModeWeek:
		return ModeWeek, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeWeek {
		return ModeMonth
	}
	return ModeWeek
}

// Cell is one day in a calendar grid.
type Cell struct {
	Date            time.Time // start of the day, in the reference date's location
	InCurrentPeriod bool      // false for lead-in/lead-out days of a month grid
}

// BuildGrid returns the ordered cells for the period containing referenceDate.
//
// Month grids are Monday-first and always MonthGridCells long so the layout
// does not jump between five and six rows. Week grids are the seven days
// starting on the Monday on or before referenceDate.
func BuildGrid(referenceDate time.Time, mode Mode) []Cell {
	if mode == ModeWeek {
		return buildWeek(referenceDate)
	}
	return buildMonth(referenceDate)
}

func buildMonth(ref time.Time) []Cell {
	year, month, _ := ref.Date()
	loc := ref.Location()
	first := dateutil.StartOfDay(year, month, 1, loc)
	days := dateutil.DaysIn(year, month)

	// Day offsets relative to the 1st: lead-in cells are zero or negative days
	// of this month, lead-out cells overflow into the next. time.Date
	// normalizes both, so the grid never steps through wall-clock instants.
	leadIn := dateutil.ISOWeekday(first) - 1
	cells := make([]Cell, MonthGridCells)
	for i := range cells {
		d := i - leadIn + 1
		cells[i] = Cell{
			Date:            dateutil.StartOfDay(year, month, d, loc),
			InCurrentPeriod: d >= 1 && d <= days,
		}
	}
	return cells
}

func buildWeek(ref time.Time) []Cell {
	monday, _ := dateutil.WeekRange(ref)
	cells := make([]Cell, 7)
	for i := range cells {
		cells[i] = Cell{Date: dateutil.AddDays(monday, i), InCurrentPeriod: true}
	}
	return cells
}

// WeekdayShortName returns the short name of the weekday (0=Monday).
func WeekdayShortName(weekday int) string {
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return names[weekday]
}
