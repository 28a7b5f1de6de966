package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/llm"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/testfixtures"
)

func mk(id, participant string, start time.Time, minutes int) *session.Session {
	return &session.Session{
		ID:            id,
		ParticipantID: participant,
		Title:         "Session " + id,
		Start:         start,
		End:           start.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestSummarize_Week(t *testing.T) {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	window := calendar.NewWindow(monday.AddDate(0, 0, 2), calendar.ModeWeek)

	sessions := []*session.Session{
		mk("1", "ana", monday.Add(9*time.Hour), 60),
		mk("2", "ben", monday.Add(9*time.Hour+30*time.Minute), 45), // overlaps 1
		mk("3", "ana", monday.AddDate(0, 0, 2).Add(18*time.Hour), 90),
		mk("4", "ana", monday.AddDate(0, 0, 7).Add(9*time.Hour), 60), // next week
	}
	participants := []*session.Participant{{ID: "ana", Name: "Ana"}, {ID: "ben", Name: "Ben"}}

	s := Summarize(window, sessions, participants...)

	if !s.Start.Equal(monday) || !s.End.Equal(monday.AddDate(0, 0, 7)) {
		t.Fatalf("range = %v..%v", s.Start, s.End)
	}
	if len(s.Sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(s.Sessions))
	}
	if len(s.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(s.Days))
	}
	if s.Days[0].Sessions != 2 || s.Days[0].Minutes != 105 {
		t.Errorf("monday = %+v, want 2 sessions / 105 minutes", s.Days[0])
	}
	if s.Days[2].Minutes != 90 {
		t.Errorf("wednesday minutes = %d, want 90", s.Days[2].Minutes)
	}
	if s.TotalMinutes != 195 {
		t.Errorf("total = %d, want 195", s.TotalMinutes)
	}
	if s.Busiest == nil || !s.Busiest.Date.Equal(monday) {
		t.Errorf("busiest = %+v, want monday", s.Busiest)
	}

	if len(s.Participants) != 2 || s.Participants[0].Name != "Ana" || s.Participants[0].Minutes != 150 {
		t.Errorf("participants = %+v", s.Participants)
	}
	if s.Participants[1].Name != "Ben" || s.Participants[1].Sessions != 1 {
		t.Errorf("participants[1] = %+v", s.Participants[1])
	}

	if len(s.Overlaps) != 1 || s.Overlaps[0].First.ID != "1" || s.Overlaps[0].Second.ID != "2" {
		t.Errorf("overlaps = %+v", s.Overlaps)
	}
}

func TestSummarize_MonthOnlyCountsInPeriodDays(t *testing.T) {
	window := calendar.NewWindow(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), calendar.ModeMonth)
	s := Summarize(window, nil)
	if len(s.Days) != 29 {
		t.Errorf("days = %d, want 29", len(s.Days))
	}
	if s.Busiest != nil {
		t.Errorf("busiest = %+v, want nil for an empty month", s.Busiest)
	}
}

func TestSummarize_UnknownParticipantUsesID(t *testing.T) {
	day := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	s := Summarize(calendar.NewWindow(day, calendar.ModeWeek), []*session.Session{mk("1", "walk-in", day, 30)})
	if len(s.Participants) != 1 || s.Participants[0].Name != "walk-in" {
		t.Errorf("participants = %+v", s.Participants)
	}
}

func TestFindOverlaps_Touching(t *testing.T) {
	day := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	sessions := []*session.Session{mk("a", "x", day, 60), mk("b", "y", day.Add(time.Hour), 60)}
	if got := findOverlaps(sessions); len(got) != 0 {
		t.Errorf("touching sessions reported as overlapping: %+v", got)
	}
}

type stubClient struct{ reply string }

func (s stubClient) Chat(context.Context, []llm.Message) (string, error) { return s.reply, nil }

func (s stubClient) ChatJSON(_ context.Context, _ []llm.Message, result any) error {
	p := result.(*llm.Insight)
	p.Theme = s.reply
	return nil
}

func TestBuild(t *testing.T) {
	day := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := testfixtures.NewRepository(mk("1", "ana", day, 60))
	_ = repo.CreateParticipant(context.Background(), &session.Participant{ID: "ana", Name: "Ana"})

	var got config.LLMConfig
	s, err := Build(context.Background(), repo, BuildOptions{
		Window:         calendar.NewWindow(day, calendar.ModeWeek),
		IncludeInsight: true,
		LLM:            config.LLMConfig{Provider: "ollama", Model: "llama3"},
		NewClient: func(cfg config.LLMConfig) (llm.Client, error) {
			got = cfg
			return stubClient{reply: "Steady week"}, nil
		},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.Provider != "ollama" || got.Model != "llama3" {
		t.Errorf("llm config = %+v", got)
	}
	if !strings.Contains(s.Insight, "Steady week") {
		t.Errorf("insight = %q", s.Insight)
	}
	if s.Participants[0].Name != "Ana" {
		t.Errorf("participants = %+v", s.Participants)
	}
}

func TestBuild_Errors(t *testing.T) {
	day := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	window := calendar.NewWindow(day, calendar.ModeWeek)

	repo := testfixtures.NewRepository(mk("1", "ana", day, 60))
	noModel := BuildOptions{Window: window, IncludeInsight: true, LLM: config.LLMConfig{Provider: "lmstudio"}}
	if _, err := Build(context.Background(), repo, noModel); !errors.Is(err, llm.ErrModelRequired) {
		t.Errorf("error = %v, want ErrModelRequired", err)
	}

	repo.FetchErr = errors.New("disk full")
	if _, err := Build(context.Background(), repo, BuildOptions{Window: window}); !errors.Is(err, repo.FetchErr) {
		t.Errorf("error = %v, want %v", err, repo.FetchErr)
	}
}
