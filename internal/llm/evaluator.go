package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

// ErrNoSessions is returned when there is nothing to evaluate.
var ErrNoSessions = errors.New("no sessions to evaluate")

const evaluatorSystemPrompt = `You are a concise strength and conditioning coordinator reviewing a personal trainer's calendar. Respond with JSON only.`

const userPromptTemplate = `Review this training schedule and reply with EXACTLY this JSON shape:

{"theme": "2-4 word theme", "observations": ["..."], "next_steps": ["..."]}

Look for:
- clients trained on consecutive days with no recovery day
- back-to-back sessions with less than 15 minutes between them (marked ⏱)
- sessions outside working hours %02d:00-%02d:00 (marked ☾)
- overlapping sessions (marked ⚠)
- clients with a single session in the period

Rules:
- At most 3 observations and 2 next steps
- Each item under 80 characters, specific about days, times and client names
- Omit categories with no issue

Schedule:
%s`

// EvalOpts configures the evaluation behavior.
type EvalOpts struct {
	WorkingHours calendar.WorkingHours
}

// Insight is the structured coaching note returned by the model.
type Insight struct {
	Theme        string   `json:"theme"`
	Observations []string `json:"observations"`
	NextSteps    []string `json:"next_steps"`
}

// String renders the insight for terminal output.
func (i *Insight) String() string {
	var sb strings.Builder
	if i.Theme != "" {
		fmt.Fprintf(&sb, "THEME: %s\n", i.Theme)
	}
	if len(i.Observations) > 0 {
		sb.WriteString("\n")
		for _, o := range i.Observations {
			fmt.Fprintf(&sb, "•  %s\n", o)
		}
	}
	if len(i.NextSteps) > 0 {
		sb.WriteString("\nNEXT:\n")
		for _, n := range i.NextSteps {
			fmt.Fprintf(&sb, "➜  %s\n", n)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Evaluator asks an LLM for a short review of a calendar window.
type Evaluator struct {
	client Client
	opts   EvalOpts
}

// NewEvaluator creates a new Evaluator with the given LLM client.
func NewEvaluator(client Client) *Evaluator {
	return NewEvaluatorWithOpts(client, EvalOpts{})
}

// NewEvaluatorWithOpts creates a new Evaluator with options.
func NewEvaluatorWithOpts(client Client, opts EvalOpts) *Evaluator {
	if opts.WorkingHours.Validate() != nil {
		opts.WorkingHours = calendar.WorkingHours{StartHour: 8, EndHour: 21}
	}
	return &Evaluator{client: client, opts: opts}
}

// EvaluateWindow sends the window's sessions to the LLM and returns its review.
func (e *Evaluator) EvaluateWindow(ctx context.Context, window calendar.Window, sessions []*session.Session, participants []*session.Participant) (*Insight, error) {
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}

	prompt := fmt.Sprintf(userPromptTemplate,
		e.opts.WorkingHours.StartHour,
		e.opts.WorkingHours.EndHour,
		e.formatWindowData(window, sessions, participants),
	)

	var insight Insight
	err := e.client.ChatJSON(ctx, []Message{
		{Role: "system", Content: evaluatorSystemPrompt},
		{Role: "user", Content: prompt},
	}, &insight)
	if err != nil {
		return nil, fmt.Errorf("evaluating window: %w", err)
	}
	return &insight, nil
}

// formatWindowData lists sessions day by day, with markers the prompt explains.
func (e *Evaluator) formatWindowData(window calendar.Window, sessions []*session.Session, participants []*session.Participant) string {
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	sorted := append([]*session.Session(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var sb strings.Builder
	start, end := window.Range()
	fmt.Fprintf(&sb, "Period (%s): %s - %s\n\n",
		window.Mode,
		start.Format("Mon Jan 2"),
		dateutil.AddDays(end, -1).Format("Mon Jan 2, 2006"))

	var currentDate string
	for i, s := range sorted {
		date := s.Start.Format("2006-01-02")
		if date != currentDate {
			if currentDate != "" {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%s\n", s.Start.Format("Mon Jan 2"))
			currentDate = date
		}

		marker := "  "
		switch {
		case overlapsAny(s, sorted):
			marker = "⚠ "
		case i > 0 && shortGap(sorted[i-1], s):
			marker = "⏱ "
		case outsideHours(s, e.opts.WorkingHours):
			marker = "☾ "
		}

		name := names[s.ParticipantID]
		if name == "" {
			name = s.ParticipantID
		}

		fmt.Fprintf(&sb, "  %s %s-%s  %s  %s  %s\n",
			marker,
			s.Start.Format("15:04"),
			s.End.Format("15:04"),
			name,
			s.Title,
			formatDuration(s.Minutes()))
	}

	return sb.String()
}

func overlapsAny(s *session.Session, all []*session.Session) bool {
	for _, other := range all {
		if s.OverlapsWith(other) {
			return true
		}
	}
	return false
}

func shortGap(prev, next *session.Session) bool {
	gap := next.Start.Sub(prev.End)
	return gap >= 0 && gap < 15*time.Minute
}

func outsideHours(s *session.Session, hours calendar.WorkingHours) bool {
	return s.Start.Hour() < hours.StartHour || s.Start.Hour() >= hours.EndHour
}

// formatDuration formats minutes as a human-readable duration.
func formatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
