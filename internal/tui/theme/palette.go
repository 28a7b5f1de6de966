package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a Theme resolved into the colors each part of the calendar
// draws with.
type Palette struct {
	Light bool

	Bg      lipgloss.Color
	Fg      lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Panel   lipgloss.Color // focused day panel row

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color

	// Period cells belong to the displayed week or month; Outside cells are
	// the lead-in and lead-out days that pad a month grid.
	Period  CellColors
	Outside CellColors

	Chips ChipColors
	Modal ModalColors
}

// CellColors are the colors of one kind of day cell in its three states.
type CellColors struct {
	Bg         lipgloss.Color
	Number     lipgloss.Color
	SelectedBg lipgloss.Color
	SelectedFg lipgloss.Color
	TodayBg    lipgloss.Color
	TodayFg    lipgloss.Color
}

// ChipColors are the session chip colors. Text is chosen per background.
type ChipColors struct {
	Upcoming     lipgloss.Color
	UpcomingText lipgloss.Color
	Past         lipgloss.Color
	PastText     lipgloss.Color
	Overlap      lipgloss.Color
	OverlapText  lipgloss.Color
}

// ModalColors are the colors of the form and confirmation dialogs.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Backdrop  lipgloss.Color
}

// NewPalette resolves t. A nil theme resolves the default one.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	bg, fg := mustHex(t.Bg), mustHex(t.Fg)
	muted := mustHex(t.FgMuted)
	selection := mustHex(t.BgSelection)
	today := mustHex(t.Today)
	light := luminance(bg) > 0.55

	outsideBg := orHex(t.Grid.OutsideBg, bg.BlendRgb(mustHex(t.BgHighlight), 0.5))
	outsideFg := orHex(t.Grid.OutsideFg, muted)
	selectedBg := orHex(t.Grid.SelectedBg, selection)
	// Outside days stay recessed even when selected or today.
	outsideSelected := selectedBg.BlendRgb(outsideBg, 0.4)
	outsideToday := today.BlendRgb(outsideBg, 0.5)

	upcoming := chipBg(mustHex(t.Session), bg, light, 0.5)
	past := chipBg(mustHex(t.Session), bg, light, 0.75)
	overlap := chipBg(mustHex(t.Overlap), bg, light, 0.5)

	modalBg := orHex(t.Modal.Bg, mustHex(t.BgHighlight))
	modalText := orHex(t.Modal.Text, fg)

	return &Palette{
		Light:   light,
		Bg:      color(bg),
		Fg:      color(fg),
		Muted:   color(muted),
		Accent:  lipgloss.Color(t.Accent),
		Warning: lipgloss.Color(t.Warning),
		Panel:   color(selectedBg),

		TextOnAccent:  color(readable(mustHex(t.Accent), bg, fg)),
		TextOnWarning: color(readable(mustHex(t.Warning), bg, fg)),

		Period: CellColors{
			Bg:         color(bg),
			Number:     color(fg),
			SelectedBg: color(selectedBg),
			SelectedFg: color(readable(selectedBg, fg, bg)),
			TodayBg:    color(today),
			TodayFg:    color(readable(today, bg, fg)),
		},
		Outside: CellColors{
			Bg:         color(outsideBg),
			Number:     color(outsideFg),
			SelectedBg: color(outsideSelected),
			SelectedFg: color(readable(outsideSelected, outsideFg, fg)),
			TodayBg:    color(outsideToday),
			TodayFg:    color(readable(outsideToday, bg, fg)),
		},

		Chips: ChipColors{
			Upcoming:     color(upcoming),
			UpcomingText: color(readable(upcoming, fg, bg)),
			Past:         color(past),
			PastText:     color(muted),
			Overlap:      color(overlap),
			OverlapText:  color(readable(overlap, fg, bg)),
		},

		Modal: ModalColors{
			Bg:        color(modalBg),
			Border:    color(orHex(t.Modal.Border, mustHex(t.Accent))),
			Text:      color(modalText),
			Muted:     color(orHex(t.Modal.Muted, muted)),
			Highlight: color(orHex(t.Modal.Highlight, mustHex(t.Accent))),
			Backdrop:  color(selection.BlendRgb(bg, 0.5)),
		},
	}
}

// chipBg tints a chip color toward the background: lighter on light themes,
// darker on dark ones. depth is how far toward the background it moves.
func chipBg(c, bg colorful.Color, light bool, depth float64) colorful.Color {
	if light {
		return c.BlendRgb(bg, 0.25+depth*0.8)
	}
	return c.BlendRgb(colorful.Color{}, depth)
}

// readable returns whichever of a and b contrasts more with bg.
func readable(bg, a, b colorful.Color) colorful.Color {
	if contrast(bg, a) >= contrast(bg, b) {
		return a
	}
	return b
}

func contrast(a, b colorful.Color) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// luminance is the WCAG relative luminance of c.
func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// mustHex parses a color already checked by Load. Hand-built themes with a
// bad value resolve to black.
func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

func orHex(hex string, fallback colorful.Color) colorful.Color {
	if hex == "" {
		return fallback
	}
	return mustHex(hex)
}

func color(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}
