package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

// participantNames maps participant IDs to display names.
type participantNames map[string]string

func newParticipantNames(participants []*session.Participant) participantNames {
	names := make(participantNames, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return names
}

// of falls back to the raw ID for participants that are not loaded.
func (n participantNames) of(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return id
}

func chipText(s *session.Session, names participantNames) string {
	return s.Start.Format("15:04") + " " + names.of(s.ParticipantID)
}

func sessionRow(s *session.Session, names participantNames) string {
	return fmt.Sprintf("%s-%s  %s  %s  (%s)",
		s.Start.Format("15:04"), s.End.Format("15:04"),
		names.of(s.ParticipantID), s.Title, formatMinutes(s.Minutes()))
}

func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

// overlapping returns the IDs of sessions that share time with another one.
func overlapping(sessions []*session.Session) map[string]bool {
	ids := make(map[string]bool)
	for i, a := range sessions {
		for _, b := range sessions[i+1:] {
			if a.OverlapsWith(b) {
				ids[a.ID] = true
				ids[b.ID] = true
			}
		}
	}
	return ids
}

// periodTitle names the window: "June 2024" or "Jun 10 - Jun 16, 2024".
func periodTitle(w calendar.Window) string {
	if w.Mode == calendar.ModeMonth {
		return w.ReferenceDate.Format("January 2006")
	}
	start, end := w.Range()
	last := dateutil.AddDays(end, -1)
	if start.Year() != last.Year() {
		return start.Format("Jan 2, 2006") + " - " + last.Format("Jan 2, 2006")
	}
	return start.Format("Jan 2") + " - " + last.Format("Jan 2, 2006")
}

func weekdayHeaders() []string {
	headers := make([]string, 7)
	for i := range headers {
		headers[i] = calendar.WeekdayShortName(i)
	}
	return headers
}

// agendaText renders the in-period days that have sessions as plain text.
func agendaText(w calendar.Window, cells []calendar.DayCell, names participantNames) string {
	var b strings.Builder
	b.WriteString(periodTitle(w))
	b.WriteString("\n")

	count := 0
	for _, cell := range cells {
		if !cell.InCurrentPeriod || len(cell.Sessions) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(cell.Date.Format("Mon Jan 2"))
		b.WriteString("\n")
		for _, s := range cell.Sessions {
			b.WriteString("  ")
			b.WriteString(sessionRow(s, names))
			if s.Notes != "" {
				b.WriteString("  - ")
				b.WriteString(s.Notes)
			}
			b.WriteString("\n")
			count++
		}
	}
	if count == 0 {
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}

func isPast(s *session.Session, now time.Time) bool {
	return !s.End.After(now)
}
