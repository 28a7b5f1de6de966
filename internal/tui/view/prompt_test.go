package view

import (
	"strings"
	"testing"
)

func TestPromptLinesIncludesSuggestionsWhenFocused(t *testing.T) {
	state := PromptState{
		Value:       "/g",
		Cursor:      "_",
		Focused:     true,
		Suggestions: []Suggestion{{Name: "/goto", Description: "Jump to a date"}},
	}
	lines := PromptLines(state, 40)

	if lines[0] != "> /g_" {
		t.Fatalf("input line = %q", lines[0])
	}
	found := false
	for _, line := range lines {
		if line == "  /goto Jump to a date" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected suggestion line, got %v", lines)
	}

	state.Focused = false
	if got := PromptLines(state, 40); len(got) != 1 {
		t.Fatalf("unfocused prompt lines = %v, want input only", got)
	}
}

func TestWrapTextToWidths(t *testing.T) {
	lines := WrapTextToWidths("move ana to thursday morning", 10, 10)
	if len(lines) < 3 {
		t.Fatalf("lines = %v, want wrapped output", lines)
	}
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
}

func TestClampPromptLinesAddsEllipsis(t *testing.T) {
	lines := []string{"one", "two", "three"}
	clamped := ClampPromptLines(lines, 2, 5)
	if len(clamped) != 2 {
		t.Fatalf("clamped length = %d, want 2", len(clamped))
	}
	if !strings.HasSuffix(clamped[1], "…") {
		t.Fatalf("expected ellipsis on last line, got %q", clamped[1])
	}
}
