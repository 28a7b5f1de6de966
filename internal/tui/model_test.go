package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/testfixtures"
	"github.com/javiermolinar/trainerdesk/internal/tui/commands"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sessionAt(id, participant string, start time.Time, minutes int) *session.Session {
	return &session.Session{
		ID:            id,
		ParticipantID: participant,
		Title:         "Strength",
		Start:         start,
		End:           start.Add(time.Duration(minutes) * time.Minute),
	}
}

// newTestModel builds a model over an in-memory repository with one client
// and runs the initial load.
func newTestModel(t *testing.T, sessions ...*session.Session) (Model, *testfixtures.Repository) {
	t.Helper()
	repo := testfixtures.NewRepository(sessions...)
	if err := repo.CreateParticipant(context.Background(), &session.Participant{ID: "p1", Name: "Ana"}); err != nil {
		t.Fatalf("CreateParticipant: %v", err)
	}

	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	m := New(repo, config.Default(), WithClock(clock.NowFunc()))
	m = feed(t, m, m.Init())
	return m, repo
}

// feed runs cmd and hands the resulting messages back to the model. Status
// and error messages are applied but their clearing ticks are not waited for.
func feed(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}

	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = feed(t, m, c)
		}
	case commands.StatusMsgCmd, commands.ErrMsg:
		updated, _ := m.Update(msg)
		m = updated.(Model)
	case commands.FetchedMsg, commands.MutationMsg, commands.ParticipantsLoadedMsg,
		commands.ParticipantAddedMsg, commands.SummaryMsg:
		updated, next := m.Update(msg)
		m = feed(t, updated.(Model), next)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestNew_UsesConfigDefaults(t *testing.T) {
	m := New(nil, nil)

	if m.view.Window().Mode != calendar.ModeMonth {
		t.Errorf("mode = %s, want month", m.view.Window().Mode)
	}
	if m.view.WorkingHours() != config.Default().WorkingHours() {
		t.Errorf("working hours = %+v", m.view.WorkingHours())
	}
	if m.Init() != nil {
		t.Error("Init without a repository should not issue commands")
	}
}

func TestNew_WeekModeFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule.DefaultView = "week"

	m := New(nil, cfg)
	if m.view.Window().Mode != calendar.ModeWeek {
		t.Fatalf("mode = %s, want week", m.view.Window().Mode)
	}
}

func TestNew_UnknownThemeFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Theme = "does-not-exist"

	m := New(nil, cfg)
	if m.theme == nil || m.theme.Name == "" {
		t.Fatal("expected fallback theme")
	}
}

func TestInit_LoadsSessionsAndClients(t *testing.T) {
	ref := testfixtures.ReferenceTime()
	m, repo := newTestModel(t,
		sessionAt("s1", "p1", ref.Add(-2*time.Hour), 60),
		sessionAt("s2", "p1", day(2024, time.June, 20).Add(9*time.Hour), 45),
		sessionAt("s3", "p1", day(2024, time.July, 2).Add(9*time.Hour), 45),
	)

	if m.view.Loading() {
		t.Fatal("view still loading after initial fetch")
	}
	if got := len(m.view.Sessions()); got != 2 {
		t.Fatalf("loaded %d sessions, want 2 (July is outside the window)", got)
	}
	if got := len(m.selectedSessions()); got != 1 {
		t.Fatalf("selected day has %d sessions, want 1", got)
	}
	if m.names.of("p1") != "Ana" {
		t.Fatalf("client name = %q, want Ana", m.names.of("p1"))
	}
	if len(repo.Fetches()) != 1 {
		t.Fatalf("fetches = %d, want 1", len(repo.Fetches()))
	}
}
