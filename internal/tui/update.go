package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/trainerdesk/internal/schedule"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.FetchedMsg:
		if m.view.Apply(msg.Result) {
			m.clampPanelCursor()
		}
		return m, nil

	case commands.MutationMsg:
		req, ok := m.view.Settle(msg.Mutation)
		if !ok {
			return m, nil
		}
		label := "Saved session"
		if msg.Mutation.Op == schedule.OpDelete {
			label = "Deleted session"
		}
		return m, tea.Batch(m.fetch(req), commands.Status(label))

	case commands.ParticipantsLoadedMsg:
		m.setParticipants(msg.Participants)
		return m, nil

	case commands.ParticipantAddedMsg:
		m.setParticipants(msg.Participants)
		return m, commands.Status("Added client " + msg.Participant.Name)

	case commands.SummaryMsg:
		m.summary = msg.Summary
		m.summaryLines = summaryLines(msg.Summary, m.names)
		m.mode = ModeSummary
		m.statusMsg = ""
		return m, nil

	case commands.ErrMsg:
		m.logger.Warn("command failed", zap.Error(msg.Err))
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = m.now().Add(errorDuration)
		return m, commands.ClearStatusAfter(errorDuration)

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusTime = m.now().Add(statusDuration)
		return m, commands.ClearStatusAfter(statusDuration)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	switch m.mode {
	case ModePrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	case ModeForm:
		m.form, cmd = m.form.update(msg)
	}
	return m, cmd
}

// fetch turns a view request into a command.
func (m Model) fetch(req schedule.Request) tea.Cmd {
	if m.repo == nil {
		return nil
	}
	return commands.Fetch(m.view, req, m.repo)
}

func (m *Model) setParticipants(participants []*session.Participant) {
	m.participants = participants
	m.names = newParticipantNames(participants)
}

// clampPanelCursor keeps the day panel cursor on an existing session.
func (m *Model) clampPanelCursor() {
	n := len(m.selectedSessions())
	switch {
	case n == 0:
		m.panelCursor = 0
	case m.panelCursor >= n:
		m.panelCursor = n - 1
	case m.panelCursor < 0:
		m.panelCursor = 0
	}
}
