package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
)

// ErrInvalidWorkingHours is returned when a WorkingHours policy is out of range.
var ErrInvalidWorkingHours = errors.New("working hours must satisfy 0 <= start < end <= 24")

// WorkingHours is the daily window in which new sessions are proposed.
type WorkingHours struct {
	StartHour int
	EndHour   int
}

// Validate checks 0 <= StartHour < EndHour <= 24.
func (w WorkingHours) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidWorkingHours, w.StartHour, w.EndHour)
	}
	return nil
}

// ProposeSlot turns a raw candidate instant into a default start time for a
// new session.
//
// Before working hours it moves to the same day at StartHour:00; at or after
// EndHour it rolls to the next day at StartHour:00; otherwise it snaps to the
// top of the candidate's hour. Existing sessions are not consulted.
func ProposeSlot(candidate time.Time, policy WorkingHours) time.Time {
	y, m, d := candidate.Date()
	loc := candidate.Location()
	hour := candidate.Hour()

	switch {
	case hour < policy.StartHour:
		return openingOn(y, m, d, policy.StartHour, loc)
	case hour >= policy.EndHour:
		return openingOn(y, m, d+1, policy.StartHour, loc)
	default:
		return time.Date(y, m, d, hour, 0, 0, 0, loc)
	}
}

// openingOn returns hour:00 on the given date. A midnight opening is the
// start of the day, which is not 00:00 where daylight saving skips it.
func openingOn(y int, m time.Month, d, hour int, loc *time.Location) time.Time {
	if hour == 0 {
		return dateutil.StartOfDay(y, m, d, loc)
	}
	return time.Date(y, m, d, hour, 0, 0, 0, loc)
}
