package calendar

import (
	"time"

	"github.com/javiermolinar/trainerdesk/internal/session"
)

// DayCell is a grid cell together with the sessions that start on it.
type DayCell struct {
	Cell
	Sessions []*session.Session
}

// SessionsOnDay returns the sessions whose start falls on day's calendar date.
//
// The start instant is viewed in day's location before comparing year, month
// and day-of-month, so a session that runs past midnight belongs only to the
// day it starts on. Input order is preserved.
func SessionsOnDay(sessions []*session.Session, day time.Time) []*session.Session {
	var result []*session.Session
	y, m, d := day.Date()
	for _, s := range sessions {
		if s == nil {
			continue
		}
		sy, sm, sd := s.Start.In(day.Location()).Date()
		if sy == y && sm == m && sd == d {
			result = append(result, s)
		}
	}
	return result
}

// Bucket attaches sessions to every cell of a grid in a single pass over the
// sessions. Sessions outside the grid are ignored.
func Bucket(cells []Cell, sessions []*session.Session) []DayCell {
	out := make([]DayCell, len(cells))
	if len(cells) == 0 {
		return out
	}

	loc := cells[0].Date.Location()
	index := make(map[dayKey]int, len(cells))
	for i, c := range cells {
		out[i].Cell = c
		index[keyOf(c.Date)] = i
	}

	for _, s := range sessions {
		if s == nil {
			continue
		}
		if i, ok := index[keyOf(s.Start.In(loc))]; ok {
			out[i].Sessions = append(out[i].Sessions, s)
		}
	}

	return out
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{year: y, month: m, day: d}
}
