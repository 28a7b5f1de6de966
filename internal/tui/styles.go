package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/trainerdesk/internal/tui/theme"
	"github.com/javiermolinar/trainerdesk/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg     lipgloss.Color
	colorAccent lipgloss.Color

	AppStyle     lipgloss.Style
	TitleStyle   lipgloss.Style
	PeriodStyle  lipgloss.Style
	LoadingStyle lipgloss.Style

	Grid  view.GridStyles
	Panel view.PanelStyles
	Modal view.ModalStyles

	// Footer
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style
	StatusStyle        lipgloss.Style
	NoticeStyle        lipgloss.Style
	HelpStyle          lipgloss.Style

	// Form inputs
	InputTextStyle   lipgloss.Style
	InputCursorStyle lipgloss.Style
	PlaceholderStyle lipgloss.Style

	ModalBackdropColor lipgloss.Color
}

// NewStyles creates a Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s := &Styles{
		colorBg:            p.Bg,
		colorAccent:        p.Accent,
		ModalBackdropColor: p.Modal.Backdrop,
	}

	s.AppStyle = base.Padding(0, 1)
	s.TitleStyle = base.Foreground(p.Accent).Bold(true)
	s.PeriodStyle = base.Bold(true)
	s.LoadingStyle = base.Foreground(p.Muted).Italic(true)

	s.Grid = view.GridStyles{
		Header:      base.Foreground(p.Accent).Bold(true),
		Period:      cellStyles(p.Period),
		Outside:     cellStyles(p.Outside),
		Chip:        lipgloss.NewStyle().Foreground(p.Chips.UpcomingText).Background(p.Chips.Upcoming),
		ChipPast:    lipgloss.NewStyle().Foreground(p.Chips.PastText).Background(p.Chips.Past),
		ChipOverlap: lipgloss.NewStyle().Foreground(p.Chips.OverlapText).Background(p.Chips.Overlap),
		More:        base.Foreground(p.Muted).Italic(true),
	}

	s.Panel = view.PanelStyles{
		Title:    base.Foreground(p.Accent).Bold(true),
		Row:      base,
		RowFocus: base.Background(p.Panel).Bold(true),
		Muted:    base.Foreground(p.Muted).Italic(true),
	}

	modalBase := lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Text)
	s.Modal = view.ModalStyles{
		HeaderStyle: modalBase,
		TitleStyle:  modalBase.Foreground(p.Modal.Highlight).Bold(true),
		FooterStyle: modalBase.Foreground(p.Modal.Muted),
		FrameStyle: modalBase.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			BorderBackground(p.Modal.Bg).
			Padding(1, 2),
		ButtonStyle:       modalBase.Foreground(p.Modal.Muted).Padding(0, 2),
		ButtonActiveStyle: lipgloss.NewStyle().Foreground(p.TextOnAccent).Background(p.Accent).Bold(true).Padding(0, 2),
		BodyStyle:         modalBase,
		LabelStyle:        modalBase.Foreground(p.Modal.Muted),
		HintStyle:         modalBase.Foreground(p.Warning),
	}

	s.PromptStyle = base.
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.Muted).
		BorderBackground(p.Bg)
	s.PromptFocusedStyle = s.PromptStyle.BorderForeground(p.Accent)
	s.StatusStyle = base.Foreground(p.Accent)
	s.NoticeStyle = lipgloss.NewStyle().Foreground(p.TextOnWarning).Background(p.Warning).Padding(0, 1)
	s.HelpStyle = base.Foreground(p.Muted)

	s.InputTextStyle = modalBase
	s.InputCursorStyle = modalBase.Foreground(p.Accent)
	s.PlaceholderStyle = modalBase.Foreground(p.Modal.Muted).Italic(true)

	return s
}

func cellStyles(c theme.CellColors) view.CellStyles {
	cell := lipgloss.NewStyle().Background(c.Bg).Foreground(c.Number)
	return view.CellStyles{
		Cell:     cell,
		Selected: cell.Background(c.SelectedBg).Foreground(c.SelectedFg),
		Number:   lipgloss.NewStyle().Bold(true).Foreground(c.Number),
		Today:    lipgloss.NewStyle().Bold(true).Foreground(c.TodayFg).Background(c.TodayBg),
	}
}
