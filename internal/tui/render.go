package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/summary"
	"github.com/javiermolinar/trainerdesk/internal/tui/input"
	"github.com/javiermolinar/trainerdesk/internal/tui/view"
)

// Layout constants.
const (
	sidePanelMinWidth = 100 // terminal width at which the day panel moves to the right
	sidePanelWidth    = 34
	bottomPanelHeight = 6
	promptMaxLines    = 4
)

const helpNormal = "h/l/j/k day  [/] period  m month/week  t today  a add  e edit  x delete  y copy  s summary  / cmd  q quit"

// View renders the TUI.
func (m Model) View() string {
	base := ""
	if m.width > 0 && m.height > 0 {
		base = m.renderBase()
	}

	modal := m.renderModal()
	return view.Render(view.ViewState{
		Width:        m.width,
		Height:       m.height,
		BaseContent:  base,
		ModalContent: modal,
		ShowModal:    modal != "",
		Overlay:      view.Overlay{Background: m.styles.ModalBackdropColor},
	})
}

func (m Model) renderBase() string {
	innerW := m.width - 2
	if innerW < 1 {
		innerW = 1
	}

	header := m.renderHeader(innerW)
	footer, footerH := m.renderFooter(innerW)

	bodyH := m.height - lipgloss.Height(header) - footerH
	if bodyH < 2 {
		bodyH = 2
	}

	var body string
	if m.width >= sidePanelMinWidth {
		gridW := innerW - sidePanelWidth - 1
		grid := m.renderGrid(gridW, bodyH)
		panel := m.renderPanel(sidePanelWidth, bodyH)
		gap := view.PlaceBox(1, bodyH, lipgloss.Top, "", m.styles.colorBg)
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, gap, panel)
	} else {
		panelH := bottomPanelHeight
		if bodyH-panelH < 4 {
			panelH = 0
		}
		body = m.renderGrid(innerW, bodyH-panelH)
		if panelH > 0 {
			body = lipgloss.JoinVertical(lipgloss.Left, body, m.renderPanel(innerW, panelH))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	content = view.PadLinesWithBackground(content, innerW, m.height, m.styles.colorBg)
	return m.styles.AppStyle.Render(content)
}

// renderHeader draws the title line and, when present, the notice line.
func (m Model) renderHeader(width int) string {
	title := m.styles.TitleStyle.Render("trainerdesk") +
		m.styles.PeriodStyle.Render("  "+periodTitle(m.view.Window())) +
		m.styles.PeriodStyle.Render("  ["+string(m.view.Window().Mode)+"]")
	if m.view.Loading() {
		title += m.styles.LoadingStyle.Render("  loading...")
	}
	lines := []string{view.FitLine(title, width)}

	if notice, ok := m.view.Notice(); ok {
		text := view.FitLine(notice.String()+"  (esc to dismiss)", width-2)
		lines = append(lines, m.styles.NoticeStyle.Render(text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGrid(width, height int) string {
	now := m.now()
	selected := m.selectedDate()

	dayCells := m.view.Cells()
	cells := make([]view.GridCell, len(dayCells))
	for i, dc := range dayCells {
		overlaps := overlapping(dc.Sessions)
		chips := make([]view.Chip, len(dc.Sessions))
		for j, s := range dc.Sessions {
			chips[j] = view.Chip{
				Text:    chipText(s, m.names),
				Overlap: overlaps[s.ID],
				Past:    isPast(s, now),
			}
		}
		cells[i] = view.GridCell{
			Day:      dc.Date.Day(),
			Chips:    chips,
			InPeriod: dc.InCurrentPeriod,
			Today:    dateutil.SameDay(dc.Date, now),
			Selected: dateutil.SameDay(dc.Date, selected),
		}
	}

	return view.RenderGrid(view.GridViewState{
		Width:   width,
		Height:  height,
		Headers: weekdayHeaders(),
		Cells:   cells,
		Styles:  m.styles.Grid,
		Bg:      m.styles.colorBg,
	})
}

func (m Model) renderPanel(width, height int) string {
	sessions := m.selectedSessions()
	rows := make([]string, len(sessions))
	for i, s := range sessions {
		rows[i] = sessionRow(s, m.names)
	}
	return view.RenderDayPanel(view.DayPanelState{
		Width:  width,
		Height: height,
		Title:  m.selectedDate().Format("Monday, Jan 2"),
		Rows:   rows,
		Cursor: m.panelCursor,
		Empty:  "No sessions. Press a to add one.",
		Styles: m.styles.Panel,
		Bg:     m.styles.colorBg,
	})
}

// renderFooter returns the footer and its height.
func (m Model) renderFooter(width int) (string, int) {
	showPrompt := m.mode == ModePrompt
	var promptLines []string
	if showPrompt {
		matches := input.PromptMatchingCommands(m.prompt.Value(), promptCommands)
		suggestions := make([]view.Suggestion, len(matches))
		for i, c := range matches {
			suggestions[i] = view.Suggestion{Name: c.Name, Description: c.Description}
		}
		promptLines = view.PromptLines(view.PromptState{
			Value:       m.prompt.Value(),
			Cursor:      "█",
			Focused:     true,
			Suggestions: suggestions,
		}, width-2)
		promptLines = view.ClampPromptLines(promptLines, promptMaxLines, width-2)
	}

	status := ""
	if m.statusMsg != "" {
		status = m.styles.StatusStyle.Render(view.FitLine(m.statusMsg, width))
	}

	footerH := 2
	if showPrompt {
		footerH += len(promptLines) + 2
	}
	footer := view.RenderFooter(view.FooterViewState{
		InnerW:      width,
		FooterH:     footerH,
		PromptLines: promptLines,
		ShowPrompt:  showPrompt,
		StatusLine:  status,
		HelpLine:    m.styles.HelpStyle.Render(view.FitLine(m.helpLine(), width)),
		PromptStyle: m.styles.PromptFocusedStyle,
		VAlign:      lipgloss.Bottom,
		Bg:          m.styles.colorBg,
	})
	return footer, footerH
}

func (m Model) helpLine() string {
	switch m.mode {
	case ModeForm:
		return "tab/shift+tab field  ←/→ client  enter save  esc cancel"
	case ModeConfirmDelete:
		return "y delete  n cancel"
	case ModePrompt:
		return "tab complete  enter run  esc cancel"
	case ModeSummary:
		return "y copy  esc close"
	default:
		return helpNormal
	}
}

func (m Model) renderModal() string {
	switch m.mode {
	case ModeForm:
		fields := m.form.fields()
		if m.form.err != "" {
			fields[m.form.focus].Error = m.form.err
		}
		body := view.RenderFormFields(fields, m.styles.Modal)
		return view.RenderModalFrame(m.form.title(), body, "enter save · esc cancel", m.styles.Modal)
	case ModeConfirmDelete:
		body := m.styles.Modal.BodyStyle.Render(m.confirmLabel) + "\n\n" +
			view.RenderModalButtons(m.styles.Modal, 0, "Delete", "Cancel")
		return view.RenderModalFrame("Delete session?", body, "y delete · n cancel", m.styles.Modal)
	case ModeSummary:
		if len(m.summaryLines) == 0 {
			return ""
		}
		body := m.styles.Modal.BodyStyle.Render(strings.Join(m.summaryLines, "\n"))
		return view.RenderModalFrame("Summary · "+periodTitle(m.view.Window()), body, "y copy · esc close", m.styles.Modal)
	}
	return ""
}

// summaryLines formats a summary for the modal and the clipboard.
func summaryLines(s *summary.Summary, names participantNames) []string {
	if s == nil {
		return nil
	}
	lines := []string{
		fmt.Sprintf("%d sessions, %s booked", len(s.Sessions), formatMinutes(s.TotalMinutes)),
	}
	if len(s.Sessions) == 0 {
		return lines
	}
	if s.Busiest != nil {
		lines = append(lines, fmt.Sprintf("Busiest day: %s (%d sessions, %s)",
			s.Busiest.Date.Format("Mon Jan 2"), s.Busiest.Sessions, formatMinutes(s.Busiest.Minutes)))
	}

	lines = append(lines, "", "Clients")
	for _, p := range s.Participants {
		name := p.Name
		if name == p.ParticipantID {
			name = names.of(p.ParticipantID)
		}
		lines = append(lines, fmt.Sprintf("  %-20s %3d  %s", name, p.Sessions, formatMinutes(p.Minutes)))
	}

	if len(s.Overlaps) > 0 {
		lines = append(lines, "", "Overlaps")
		for _, o := range s.Overlaps {
			lines = append(lines, fmt.Sprintf("  %s %s / %s",
				o.First.Start.Format("Mon Jan 2 15:04"),
				names.of(o.First.ParticipantID),
				names.of(o.Second.ParticipantID)))
		}
	}

	if s.Insight != "" {
		lines = append(lines, "", "Notes")
		for _, l := range strings.Split(strings.TrimSpace(s.Insight), "\n") {
			lines = append(lines, "  "+l)
		}
	}
	return lines
}
