package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box with background fill.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(
		w,
		h,
		lipgloss.Left,
		vAlign,
		content,
		lipgloss.WithWhitespaceBackground(bg),
	)
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads content to width/height with a background color.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	paddingStyle := lipgloss.NewStyle().Background(bg)
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := 0; i < height; i++ {
		lineWidth := lipgloss.Width(lines[i])
		if lineWidth > width {
			lines[i] = ansi.Truncate(lines[i], width, "")
			continue
		}
		lines[i] += paddingStyle.Render(strings.Repeat(" ", width-lineWidth))
	}
	return strings.Join(lines[:height], "\n")
}

// FitLine truncates s to width cells, marking the cut with an ellipsis.
func FitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Overlay splices a centered, opaque box over base content.
type Overlay struct {
	Background lipgloss.Color
}

// Render draws content centered over base.
func (o Overlay) Render(base string, width, height int, content string) string {
	if width <= 0 || height <= 0 || content == "" {
		return base
	}

	boxLines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	boxW := 0
	for _, line := range boxLines {
		boxW = max(boxW, lipgloss.Width(line))
	}
	boxW = min(boxW, width)
	if len(boxLines) > height {
		boxLines = boxLines[:height]
	}

	bgSeq := backgroundSeq(o.Background)
	for i, line := range boxLines {
		if lipgloss.Width(line) > boxW {
			line = ansi.Cut(line, 0, boxW)
		}
		if pad := boxW - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		boxLines[i] = bgSeq + reapplyBackground(line, bgSeq) + ansi.ResetStyle
	}

	top := max(0, (height-len(boxLines))/2)
	left := max(0, (width-boxW)/2)

	baseLines := strings.Split(PadLinesWithBackground(base, width, height, lipgloss.Color("")), "\n")
	for i, line := range boxLines {
		row := top + i
		if row >= len(baseLines) {
			break
		}
		baseLine := baseLines[row]
		baseLines[row] = ansi.Cut(baseLine, 0, left) + line + ansi.Cut(baseLine, left+boxW, width)
	}
	return strings.Join(baseLines, "\n")
}

func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
}

// reapplyBackground keeps the overlay background alive after embedded resets.
func reapplyBackground(line, bgSeq string) string {
	if bgSeq == "" || line == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
	return line
}
