package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GridCell is one day of the calendar, ready to draw.
type GridCell struct {
	Day      int
	Chips    []Chip
	InPeriod bool
	Today    bool
	Selected bool
}

// Chip is a one-line session label inside a day cell.
type Chip struct {
	Text    string
	Overlap bool
	Past    bool
}

// GridStyles holds the styles used by RenderGrid.
type GridStyles struct {
	Header      lipgloss.Style
	Period      CellStyles
	Outside     CellStyles // lead-in and lead-out days
	Chip        lipgloss.Style
	ChipPast    lipgloss.Style
	ChipOverlap lipgloss.Style
	More        lipgloss.Style
}

// CellStyles styles one kind of day cell.
type CellStyles struct {
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Number   lipgloss.Style
	Today    lipgloss.Style
}

// GridViewState is everything RenderGrid needs.
type GridViewState struct {
	Width   int
	Height  int
	Headers []string
	Cells   []GridCell
	Styles  GridStyles
	Bg      lipgloss.Color
}

// GridColumns is the number of days per grid row.
const GridColumns = 7

// RenderGrid draws the weekday header and the day cells in rows of seven.
// Cells that cannot show every chip end with a "+N more" line.
func RenderGrid(state GridViewState) string {
	if state.Width < GridColumns || state.Height < 2 || len(state.Cells) == 0 {
		return ""
	}

	rows := (len(state.Cells) + GridColumns - 1) / GridColumns
	colWidths := columnWidths(state.Width)
	rowH := (state.Height - 1) / rows
	if rowH < 1 {
		rowH = 1
	}

	headerCells := make([]string, GridColumns)
	for i := range headerCells {
		label := ""
		if i < len(state.Headers) {
			label = state.Headers[i]
		}
		headerCells[i] = state.Styles.Header.Width(colWidths[i]).Render(FitLine(label, colWidths[i]))
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)}
	for r := 0; r < rows; r++ {
		rendered := make([]string, GridColumns)
		for c := 0; c < GridColumns; c++ {
			idx := r*GridColumns + c
			if idx >= len(state.Cells) {
				rendered[c] = state.Styles.Outside.Cell.Width(colWidths[c]).Height(rowH).Render("")
				continue
			}
			rendered[c] = renderCell(state.Cells[idx], colWidths[c], rowH, state.Styles)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	return PlaceBox(state.Width, state.Height, lipgloss.Top, strings.Join(lines, "\n"), state.Bg)
}

// columnWidths splits width across seven columns, giving the remainder to
// the leftmost ones.
func columnWidths(width int) []int {
	widths := make([]int, GridColumns)
	base, extra := width/GridColumns, width%GridColumns
	for i := range widths {
		widths[i] = base
		if i < extra {
			widths[i]++
		}
	}
	return widths
}

func renderCell(cell GridCell, width, height int, styles GridStyles) string {
	textW := width - 1
	if textW < 1 {
		textW = 1
	}

	kind := styles.Period
	if !cell.InPeriod {
		kind = styles.Outside
	}
	number := kind.Number
	if cell.Today {
		number = kind.Today
	}
	lines := []string{number.Render(strconv.Itoa(cell.Day))}

	capacity := height - 1
	chips := cell.Chips
	hidden := 0
	if len(chips) > capacity {
		visible := max(capacity-1, 0)
		hidden = len(chips) - visible
		chips = chips[:visible]
	}
	for _, chip := range chips {
		style := styles.Chip
		switch {
		case chip.Overlap:
			style = styles.ChipOverlap
		case chip.Past:
			style = styles.ChipPast
		}
		lines = append(lines, style.Render(FitLine(chip.Text, textW)))
	}
	if hidden > 0 && capacity > 0 {
		lines = append(lines, styles.More.Render(FitLine(fmt.Sprintf("+%d more", hidden), textW)))
	}

	style := kind.Cell
	if cell.Selected {
		style = kind.Selected
	}
	return style.Width(width).Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}

// PanelStyles holds the styles used by RenderDayPanel.
type PanelStyles struct {
	Title    lipgloss.Style
	Row      lipgloss.Style
	RowFocus lipgloss.Style
	Muted    lipgloss.Style
}

// DayPanelState describes the session list for the selected day.
type DayPanelState struct {
	Width  int
	Height int
	Title  string
	Rows   []string
	Cursor int
	Empty  string
	Styles PanelStyles
	Bg     lipgloss.Color
}

// RenderDayPanel draws the selected day's sessions with the cursor row
// highlighted. The list scrolls to keep the cursor visible.
func RenderDayPanel(state DayPanelState) string {
	if state.Width <= 0 || state.Height <= 0 {
		return ""
	}

	lines := []string{state.Styles.Title.Render(FitLine(state.Title, state.Width))}
	visible := state.Height - 1
	if len(state.Rows) == 0 {
		lines = append(lines, state.Styles.Muted.Render(FitLine(state.Empty, state.Width)))
	} else if visible > 0 {
		offset := 0
		if state.Cursor >= visible {
			offset = state.Cursor - visible + 1
		}
		for i := offset; i < len(state.Rows) && i < offset+visible; i++ {
			style := state.Styles.Row
			if i == state.Cursor {
				style = state.Styles.RowFocus
			}
			lines = append(lines, style.Width(state.Width).Render(FitLine(state.Rows[i], state.Width)))
		}
	}

	return PlaceBox(state.Width, state.Height, lipgloss.Top, strings.Join(lines, "\n"), state.Bg)
}
