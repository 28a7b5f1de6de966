// Package tui provides the terminal calendar for trainerdesk.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/summary"
	"github.com/javiermolinar/trainerdesk/internal/tui/commands"
	"github.com/javiermolinar/trainerdesk/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForm        // Creating or editing a session
	ModeConfirmDelete
	ModePrompt
	ModeSummary
)

// How long status messages stay in the footer.
const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   session.Repository
	config *config.Config
	logger *zap.Logger
	now    func() time.Time

	// Calendar state. The View is shared across model copies and only
	// touched from Update.
	view *schedule.View

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	mode         Mode
	participants []*session.Participant
	names        participantNames
	panelCursor  int // index into the selected day's sessions

	// Modal state
	form         sessionForm
	confirmID    string
	confirmLabel string
	summary      *summary.Summary
	summaryLines []string
	prompt       textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger routes calendar and key events to logger.
func WithLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a new TUI model.
func New(repo session.Repository, cfg *config.Config, opts ...ModelOption) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	prompt := textinput.New()
	prompt.Placeholder = "/goto 2024-06-10"
	prompt.Prompt = ""
	prompt.CharLimit = 128

	m := Model{
		repo:   repo,
		config: cfg,
		logger: zap.NewNop(),
		now:    time.Now,
		theme:  t,
		styles: styles,
		mode:   ModeNormal,
		names:  participantNames{},
		prompt: prompt,
	}
	for _, opt := range opts {
		opt(&m)
	}

	timeout, err := cfg.FetchTimeout()
	if err != nil {
		timeout = schedule.DefaultFetchTimeout
	}
	m.view = schedule.New(
		schedule.WithLogger(m.logger),
		schedule.WithClock(m.now),
		schedule.WithWorkingHours(cfg.WorkingHours()),
		schedule.WithSessionLength(cfg.SessionLength()),
		schedule.WithFetchTimeout(timeout),
		schedule.WithMode(cfg.ViewMode()),
	)
	return m
}

// Init starts the first fetch and loads the client list.
func (m Model) Init() tea.Cmd {
	if m.repo == nil {
		return nil
	}
	return tea.Batch(
		commands.Fetch(m.view, m.view.Start(), m.repo),
		commands.LoadParticipants(m.repo),
	)
}

// Run starts the TUI and blocks until the user quits.
func Run(repo session.Repository, cfg *config.Config, logger *zap.Logger) error {
	model := New(repo, cfg, WithLogger(logger))
	defer model.view.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
