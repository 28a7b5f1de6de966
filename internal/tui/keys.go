package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/tui/commands"
	"github.com/javiermolinar/trainerdesk/internal/tui/input"
)

var promptCommands = []input.PromptCommand{
	{Name: "/goto", Description: "Jump to a date (YYYY-MM-DD, tomorrow, friday)"},
	{Name: "/today", Description: "Jump to today"},
	{Name: "/month", Description: "Show the month grid"},
	{Name: "/week", Description: "Show the week grid"},
	{Name: "/client", Description: "Add a client"},
	{Name: "/summary", Description: "Summarize the visible period"},
	{Name: "/insight", Description: "Summarize with coaching notes"},
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key", zap.String("key", msg.String()), zap.Int("mode", int(m.mode)))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKeys(msg)
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeSummary:
		return m.handleSummaryKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Day navigation
	case "h", "left":
		return m.moveSelection(-1)
	case "l", "right":
		return m.moveSelection(1)
	case "j", "down":
		return m.moveSelection(7)
	case "k", "up":
		return m.moveSelection(-7)

	// Session cursor within the selected day
	case "tab":
		m.panelCursor++
		m.clampPanelCursor()
	case "shift+tab":
		m.panelCursor--
		m.clampPanelCursor()

	// Period navigation
	case "[":
		return m.navigate(m.view.Previous())
	case "]":
		return m.navigate(m.view.Next())
	case "m":
		return m.navigate(m.view.SetMode(m.view.Window().Mode.Toggle()))
	case "t":
		return m.navigate(m.view.Today())
	case "r":
		return m.navigate(m.view.Refresh())

	// Sessions
	case "enter":
		if s := m.selectedSession(); s != nil {
			return m.openEdit(s.ID)
		}
		return m.openNew()
	case "a":
		return m.openNew()
	case "e":
		s := m.selectedSession()
		if s == nil {
			return m, commands.Status("No session selected")
		}
		return m.openEdit(s.ID)
	case "x", "delete":
		s := m.selectedSession()
		if s == nil {
			return m, commands.Status("No session selected")
		}
		m.confirmID = s.ID
		m.confirmLabel = sessionRow(s, m.names)
		m.mode = ModeConfirmDelete

	// Output
	case "y":
		text := agendaText(m.view.Window(), m.view.Cells(), m.names)
		return m, commands.CopyToClipboard(text, "agenda")
	case "s":
		return m, m.summaryCmd(false)
	case "S":
		return m, m.summaryCmd(true)

	case "/", ":":
		m.mode = ModePrompt
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
		cmd := m.prompt.Focus()
		return m, cmd

	case "esc":
		m.view.DismissNotice()
		m.statusMsg = ""
	}

	return m, nil
}

func (m Model) moveSelection(days int) (tea.Model, tea.Cmd) {
	req, ok := m.view.MoveSelection(days)
	m.panelCursor = 0
	if !ok {
		return m, nil
	}
	return m, m.fetch(req)
}

func (m Model) selectDay(day time.Time) (tea.Model, tea.Cmd) {
	req, ok := m.view.Select(day)
	m.panelCursor = 0
	if !ok {
		return m, nil
	}
	return m, m.fetch(req)
}

func (m Model) navigate(req schedule.Request) (tea.Model, tea.Cmd) {
	m.panelCursor = 0
	return m, m.fetch(req)
}

func (m Model) openNew() (tea.Model, tea.Cmd) {
	if len(m.participants) == 0 {
		return m, commands.Status(errNoClients.Error())
	}
	draft := m.view.SelectCell(m.selectedDate())
	m.form = newSessionForm(draft, m.participants, m.styles)
	m.mode = ModeForm
	return m, nil
}

func (m Model) openEdit(id string) (tea.Model, tea.Cmd) {
	draft, ok := m.view.SelectSession(id)
	if !ok {
		return m, commands.Status("Session is no longer loaded")
	}
	m.form = newSessionForm(draft, m.participants, m.styles)
	m.mode = ModeForm
	return m, nil
}

func (m Model) summaryCmd(withInsight bool) tea.Cmd {
	if m.repo == nil {
		return nil
	}
	status := "Summarizing..."
	if withInsight {
		status = "Asking for coaching notes..."
	}
	return tea.Batch(commands.Status(status), commands.Summary(m.config, m.repo, m.view, withInsight))
}

// handleFormKeys handles keys while the session form is open.
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return m, nil
	case "tab", "down":
		m.form = m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form = m.form.move(-1)
		return m, nil
	case "left":
		if m.form.focus == fieldClient {
			m.form = m.form.cycleClient(-1)
			return m, nil
		}
	case "right":
		if m.form.focus == fieldClient {
			m.form = m.form.cycleClient(1)
			return m, nil
		}
	case "enter", "ctrl+s":
		s, err := m.form.build()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.mode = ModeNormal
		if m.repo == nil {
			return m, nil
		}
		return m, commands.Save(m.view, m.repo, s)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// handleConfirmKeys handles the delete confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.confirmID
		m.mode = ModeNormal
		m.confirmID = ""
		if m.repo == nil {
			return m, nil
		}
		return m, commands.Delete(m.view, m.repo, id)
	case "n", "N", "esc", "q":
		m.mode = ModeNormal
		m.confirmID = ""
	}
	return m, nil
}

// handleSummaryKeys handles keys while the summary is shown.
func (m Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter", "s":
		m.mode = ModeNormal
	case "y":
		return m, commands.CopyToClipboard(strings.Join(m.summaryLines, "\n"), "summary")
	}
	return m, nil
}

// handlePromptKeys handles keys in the command prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		line := m.prompt.Value()
		m.closePrompt()
		return m.runPrompt(line)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// runPrompt executes a prompt line.
func (m Model) runPrompt(line string) (tea.Model, tea.Cmd) {
	cmd, err := input.Parse(line, promptCommands)
	if err != nil {
		return m, commands.Status(err.Error())
	}

	switch cmd.Name {
	case "/goto":
		day, err := input.ResolveDate(cmd.Arg, m.now())
		if err != nil {
			return m, commands.Status(fmt.Sprintf("goto: %v", err))
		}
		return m.selectDay(day)
	case "/today":
		return m.navigate(m.view.Today())
	case "/month":
		return m.navigate(m.view.SetMode(calendar.ModeMonth))
	case "/week":
		return m.navigate(m.view.SetMode(calendar.ModeWeek))
	case "/client":
		if m.repo == nil {
			return m, nil
		}
		return m, commands.AddParticipant(m.repo, cmd.Arg)
	case "/summary":
		return m, m.summaryCmd(false)
	case "/insight":
		return m, m.summaryCmd(true)
	}
	return m, nil
}

func (m Model) selectedDate() time.Time {
	return m.view.Window().ReferenceDate
}

func (m Model) selectedSessions() []*session.Session {
	return m.view.SessionsOn(m.selectedDate())
}

func (m Model) selectedSession() *session.Session {
	sessions := m.selectedSessions()
	if m.panelCursor < 0 || m.panelCursor >= len(sessions) {
		return nil
	}
	return sessions[m.panelCursor]
}
