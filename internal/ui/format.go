package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/summary"
)

// clientNames maps participant IDs to names. Unknown IDs print as-is.
type clientNames map[string]string

func newClientNames(participants []*session.Participant) clientNames {
	names := make(clientNames, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return names
}

func (n clientNames) of(id string) string {
	if name := n[id]; name != "" {
		return name
	}
	return id
}

// PrintOpts configures session printing.
type PrintOpts struct {
	Verbose       bool // Show notes and IDs
	ShowDuration  bool // Show duration column
	MaxTitleWidth int  // Maximum title width (0 = auto)
}

// CalcMaxTitleWidth calculates the maximum title width based on options.
func (o PrintOpts) CalcMaxTitleWidth(defaultWidth int) int {
	if o.MaxTitleWidth > 0 {
		return o.MaxTitleWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "  ! HH:MM-HH:MM  <client 16>  " is ~38 columns, the duration ~6
	overhead := 38
	if o.ShowDuration {
		overhead += 6
	}
	if available := termWidth() - overhead; available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintSessionRow prints one session line. Overlapping sessions get a "!"
// marker.
func PrintSessionRow(w io.Writer, s *session.Session, names clientNames, overlap bool, opts PrintOpts, maxTitleWidth int) {
	marker := " "
	if overlap {
		marker = formatOverlap("!")
	}

	title := s.Title
	if r := []rune(title); len(r) > maxTitleWidth && maxTitleWidth > 3 {
		title = string(r[:maxTitleWidth-3]) + "..."
	}

	times := formatSession(s.Start.Format("15:04") + "-" + s.End.Format("15:04"))
	line := fmt.Sprintf("  %s %s  %-16s  %-*s", marker, times, names.of(s.ParticipantID), maxTitleWidth, title)
	if opts.ShowDuration {
		line += "  " + formatMuted(FormatDuration(s.Minutes()))
	}
	fmt.Fprintln(w, strings.TrimRight(line, " "))

	if opts.Verbose {
		fmt.Fprintf(w, "      %s\n", formatMuted("id "+s.ID))
		if s.Notes != "" {
			fmt.Fprintf(w, "      %s\n", formatMuted(s.Notes))
		}
	}
}

// PrintSessionsByDay prints sessions grouped under a header per day.
func PrintSessionsByDay(w io.Writer, sessions []*session.Session, names clientNames, opts PrintOpts) {
	overlaps := overlappingIDs(sessions)
	maxTitleWidth := opts.CalcMaxTitleWidth(32)

	var current string
	for _, s := range sessions {
		day := s.Start.Format("2006-01-02")
		if day != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s\n", formatHeader(s.Start.Format("Mon Jan 2")))
			current = day
		}
		PrintSessionRow(w, s, names, overlaps[s.ID], opts, maxTitleWidth)
	}
}

// overlappingIDs expects sessions sorted by start.
func overlappingIDs(sessions []*session.Session) map[string]bool {
	ids := make(map[string]bool)
	for i, a := range sessions {
		for _, b := range sessions[i+1:] {
			if !b.Start.Before(a.End) {
				break
			}
			if a.OverlapsWith(b) {
				ids[a.ID] = true
				ids[b.ID] = true
			}
		}
	}
	return ids
}

// PrintGrid prints the calendar as a text grid with the session count of
// each day. Days outside the period are dimmed.
func PrintGrid(w io.Writer, cells []calendar.DayCell, width int) {
	colW := width / 7
	if colW < 6 {
		colW = 6
	}
	if colW > 14 {
		colW = 14
	}

	var header strings.Builder
	for i := 0; i < 7; i++ {
		header.WriteString(fmt.Sprintf("%-*s", colW, calendar.WeekdayShortName(i)))
	}
	fmt.Fprintln(w, formatHeader(strings.TrimRight(header.String(), " ")))

	for row := 0; row*7 < len(cells); row++ {
		var line strings.Builder
		for col := 0; col < 7 && row*7+col < len(cells); col++ {
			cell := cells[row*7+col]
			text := fmt.Sprintf("%2d", cell.Date.Day())
			if n := len(cell.Sessions); n > 0 {
				text += fmt.Sprintf(" (%d)", n)
			}
			text = fmt.Sprintf("%-*s", colW, text)
			switch {
			case !cell.InCurrentPeriod:
				text = formatMuted(text)
			case len(cell.Sessions) > 0:
				text = formatSession(text)
			}
			line.WriteString(text)
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// PrintSummary prints the statistics part of a summary.
func PrintSummary(w io.Writer, s *summary.Summary, names clientNames) {
	fmt.Fprintf(w, "  %s  |  %s\n",
		formatStats(fmt.Sprintf("Sessions: %d", len(s.Sessions))),
		formatStats("Booked: "+FormatDuration(s.TotalMinutes)))

	if s.Busiest != nil {
		fmt.Fprintf(w, "  Busiest day: %s (%d sessions, %s)\n",
			s.Busiest.Date.Format("Mon Jan 2"), s.Busiest.Sessions, FormatDuration(s.Busiest.Minutes))
	}

	if len(s.Participants) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", formatHeader("CLIENTS"))
		for _, p := range s.Participants {
			fmt.Fprintf(w, "    %-20s %3d  %s\n", names.of(p.ParticipantID), p.Sessions, FormatDuration(p.Minutes))
		}
	}

	if len(s.Overlaps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", formatOverlap("OVERLAPS"))
		for _, o := range s.Overlaps {
			fmt.Fprintf(w, "    %s  %s / %s\n",
				o.First.Start.Format("Mon Jan 2 15:04"),
				names.of(o.First.ParticipantID),
				names.of(o.Second.ParticipantID))
		}
	}
}

// LoadBar draws booked minutes against the available working minutes.
func LoadBar(booked, available, width int) string {
	if available <= 0 {
		return "[" + strings.Repeat("░", width) + "] (0% booked)"
	}
	filled := booked * width / available
	if filled > width {
		filled = width
	}
	pct := booked * 100 / available
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatSession(bar), formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	text = stripMarkdownCodeBlocks(text)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}
		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	return s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.'
}

// wrapAndPrint wraps text to width and prints it with prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	continuation := strings.Repeat(" ", len([]rune(prefix)))
	current := prefix
	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			fmt.Fprintln(w, formatInsight(current+line))
			current = continuation
			line = word
		}
	}
	fmt.Fprintln(w, formatInsight(current+line))
}

// stripMarkdownCodeBlocks removes ``` fences and their content.
func stripMarkdownCodeBlocks(text string) string {
	var result []string
	inCodeBlock := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
