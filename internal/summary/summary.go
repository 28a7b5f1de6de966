// Package summary provides period statistics over a calendar window.
package summary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/llm"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

// DayStat aggregates one calendar day.
type DayStat struct {
	Date     time.Time
	Sessions int
	Minutes  int
}

// ParticipantStat aggregates one participant over the window.
type ParticipantStat struct {
	ParticipantID string
	Name          string
	Sessions      int
	Minutes       int
}

// Overlap is a pair of sessions that share time. Overlaps are allowed; they
// are reported so the trainer can review them.
type Overlap struct {
	First  *session.Session
	Second *session.Session
}

// Summary holds aggregated window data and optional insight.
type Summary struct {
	Window       calendar.Window
	Start        time.Time
	End          time.Time
	Sessions     []*session.Session
	Days         []DayStat
	Participants []ParticipantStat
	Busiest      *DayStat
	TotalMinutes int
	Overlaps     []Overlap
	Insight      string
}

// Summarize aggregates the sessions that start inside window. Participants
// are used only to resolve names.
func Summarize(window calendar.Window, sessions []*session.Session, participants ...*session.Participant) *Summary {
	start, end := window.Range()
	s := &Summary{Window: window, Start: start, End: end}

	for _, sess := range sessions {
		if sess != nil && window.Contains(sess.Start) {
			s.Sessions = append(s.Sessions, sess)
		}
	}
	sort.SliceStable(s.Sessions, func(i, j int) bool { return s.Sessions[i].Start.Before(s.Sessions[j].Start) })

	for _, cell := range calendar.Bucket(window.Cells(), s.Sessions) {
		if !cell.InCurrentPeriod {
			continue
		}
		day := DayStat{Date: cell.Date, Sessions: len(cell.Sessions)}
		for _, sess := range cell.Sessions {
			day.Minutes += sess.Minutes()
		}
		s.Days = append(s.Days, day)
		s.TotalMinutes += day.Minutes
	}

	for i := range s.Days {
		d := &s.Days[i]
		if d.Sessions == 0 {
			continue
		}
		if s.Busiest == nil || d.Minutes > s.Busiest.Minutes {
			s.Busiest = d
		}
	}

	s.Participants = participantStats(s.Sessions, participants)
	s.Overlaps = findOverlaps(s.Sessions)
	return s
}

func participantStats(sessions []*session.Session, participants []*session.Participant) []ParticipantStat {
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		if p != nil {
			names[p.ID] = p.Name
		}
	}

	byID := make(map[string]*ParticipantStat)
	for _, sess := range sessions {
		st, ok := byID[sess.ParticipantID]
		if !ok {
			name := names[sess.ParticipantID]
			if name == "" {
				name = sess.ParticipantID
			}
			st = &ParticipantStat{ParticipantID: sess.ParticipantID, Name: name}
			byID[sess.ParticipantID] = st
		}
		st.Sessions++
		st.Minutes += sess.Minutes()
	}

	stats := make([]ParticipantStat, 0, len(byID))
	for _, st := range byID {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Minutes != stats[j].Minutes {
			return stats[i].Minutes > stats[j].Minutes
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// findOverlaps expects sessions sorted by start.
func findOverlaps(sessions []*session.Session) []Overlap {
	var overlaps []Overlap
	for i, a := range sessions {
		for _, b := range sessions[i+1:] {
			if !b.Start.Before(a.End) {
				break
			}
			if a.OverlapsWith(b) {
				overlaps = append(overlaps, Overlap{First: a, Second: b})
			}
		}
	}
	return overlaps
}

// BuildOptions configures the repository-backed summary builder.
type BuildOptions struct {
	Window         calendar.Window
	IncludeInsight bool
	LLM            config.LLMConfig
	WorkingHours   calendar.WorkingHours

	// NewClient overrides the LLM client factory, mainly for tests.
	NewClient func(config.LLMConfig) (llm.Client, error)
}

// Build loads sessions for the requested window and optionally adds insight.
func Build(ctx context.Context, repo session.Repository, opts BuildOptions) (*Summary, error) {
	window := opts.Window
	if window.ReferenceDate.IsZero() {
		window = calendar.NewWindow(time.Now(), window.Mode)
	}

	start, end := window.Range()
	sessions, err := repo.FetchSessions(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching sessions: %w", err)
	}
	participants, err := repo.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	summary := Summarize(window, sessions, participants...)

	if opts.IncludeInsight && len(summary.Sessions) > 0 {
		newClient := opts.NewClient
		if newClient == nil {
			newClient = llm.NewClient
		}
		client, err := newClient(opts.LLM)
		if err != nil {
			return nil, fmt.Errorf("creating LLM client: %w", err)
		}

		evaluator := llm.NewEvaluatorWithOpts(client, llm.EvalOpts{WorkingHours: opts.WorkingHours})
		insight, err := evaluator.EvaluateWindow(ctx, window, summary.Sessions, participants)
		if err != nil {
			return nil, err
		}
		summary.Insight = insight.String()
	}

	return summary, nil
}
