package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	HeaderStyle       lipgloss.Style
	TitleStyle        lipgloss.Style
	FooterStyle       lipgloss.Style
	FrameStyle        lipgloss.Style
	ButtonStyle       lipgloss.Style
	ButtonActiveStyle lipgloss.Style
	BodyStyle         lipgloss.Style
	LabelStyle        lipgloss.Style
	HintStyle         lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	b.WriteString(styles.HeaderStyle.Render(styles.TitleStyle.Render(title)))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.FooterStyle.Render(footer))
	}

	return styles.FrameStyle.Render(b.String())
}

// RenderModalButtons renders a row of modal buttons with the active one highlighted.
func RenderModalButtons(styles ModalStyles, active int, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.ButtonStyle
		if i == active {
			style = styles.ButtonActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, styles.BodyStyle.Render(" "))
}

// FormField is one labelled row of a modal form.
type FormField struct {
	Label   string
	Value   string
	Focused bool
	Error   string
}

// RenderFormFields renders labelled form rows, aligning the values.
func RenderFormFields(fields []FormField, styles ModalStyles) string {
	labelW := 0
	for _, f := range fields {
		if w := lipgloss.Width(f.Label); w > labelW {
			labelW = w
		}
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		marker := "  "
		if f.Focused {
			marker = "> "
		}
		label := styles.LabelStyle.Width(labelW).Render(f.Label)
		line := marker + label + "  " + f.Value
		if f.Error != "" {
			line += "  " + styles.HintStyle.Render(f.Error)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
