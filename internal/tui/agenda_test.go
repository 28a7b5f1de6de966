package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/summary"
)

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{
		0:   "0m",
		45:  "45m",
		60:  "1h",
		90:  "1h30m",
		125: "2h05m",
	}
	for in, want := range tests {
		if got := formatMinutes(in); got != want {
			t.Errorf("formatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestPeriodTitle(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		mode calendar.Mode
		want string
	}{
		{"month", day(2024, time.June, 10), calendar.ModeMonth, "June 2024"},
		{"week", day(2024, time.June, 12), calendar.ModeWeek, "Jun 10 - Jun 16, 2024"},
		{"week across years", day(2024, time.December, 31), calendar.ModeWeek, "Dec 30, 2024 - Jan 5, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := periodTitle(calendar.NewWindow(tt.ref, tt.mode)); got != tt.want {
				t.Fatalf("periodTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParticipantNames_FallsBackToID(t *testing.T) {
	names := newParticipantNames([]*session.Participant{{ID: "p1", Name: "Ana"}})
	if names.of("p1") != "Ana" || names.of("p9") != "p9" {
		t.Fatalf("names = %q, %q", names.of("p1"), names.of("p9"))
	}
}

func TestOverlapping(t *testing.T) {
	base := day(2024, time.June, 10).Add(9 * time.Hour)
	sessions := []*session.Session{
		sessionAt("a", "p1", base, 60),
		sessionAt("b", "p1", base.Add(30*time.Minute), 60),
		sessionAt("c", "p1", base.Add(90*time.Minute), 30), // touches b's end
	}

	got := overlapping(sessions)
	if !got["a"] || !got["b"] || got["c"] {
		t.Fatalf("overlapping = %v", got)
	}
}

func TestAgendaText(t *testing.T) {
	w := calendar.NewWindow(day(2024, time.June, 10), calendar.ModeWeek)
	names := participantNames{"p1": "Ana"}

	if got := agendaText(w, calendar.Bucket(w.Cells(), nil), names); got != "" {
		t.Fatalf("empty agenda = %q, want empty", got)
	}

	s := sessionAt("a", "p1", day(2024, time.June, 11).Add(9*time.Hour), 60)
	s.Notes = "left knee"
	got := agendaText(w, calendar.Bucket(w.Cells(), []*session.Session{s}), names)

	want := "Jun 10 - Jun 16, 2024\n\nTue Jun 11\n  09:00-10:00  Ana  Strength  (1h)  - left knee"
	if got != want {
		t.Fatalf("agenda =\n%s\nwant\n%s", got, want)
	}
}

func TestSummaryLines(t *testing.T) {
	w := calendar.NewWindow(day(2024, time.June, 10), calendar.ModeWeek)
	a := sessionAt("a", "p1", day(2024, time.June, 11).Add(9*time.Hour), 60)
	b := sessionAt("b", "p2", day(2024, time.June, 11).Add(9*time.Hour+30*time.Minute), 60)
	s := summary.Summarize(w, []*session.Session{a, b}, &session.Participant{ID: "p1", Name: "Ana"})
	s.Insight = "Tuesday is tight.\nAdd a buffer."

	lines := summaryLines(s, participantNames{"p1": "Ana", "p2": "Bea"})
	joined := strings.Join(lines, "\n")

	for _, want := range []string{
		"2 sessions, 2h booked",
		"Busiest day: Tue Jun 11",
		"Ana",
		"Bea",
		"Tue Jun 11 09:00 Ana / Bea",
		"  Add a buffer.",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}

	empty := summaryLines(summary.Summarize(w, nil), nil)
	if len(empty) != 1 || empty[0] != "0 sessions, 0m booked" {
		t.Fatalf("empty summary = %q", empty)
	}
	if summaryLines(nil, nil) != nil {
		t.Fatal("nil summary should render nothing")
	}
}
