// Package theme loads the calendar color themes and resolves them into the
// palette the grid, day panel and modals draw with.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is the theme used when none is configured or the configured
// one does not exist.
const DefaultName = "mocha"

var names = []string{"mocha", "macchiato", "frappe", "latte", "light"}

// ErrInvalidColor is returned when a theme file holds a color that is not
// a #rrggbb hex string.
var ErrInvalidColor = errors.New("invalid theme color")

// Theme is a theme file as written on disk. Base colors are required;
// everything under Grid and Modal is optional and derived when empty.
type Theme struct {
	Name string `toml:"name"`

	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"`
	BgSelection string `toml:"bg_selection"`
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"`
	Accent      string `toml:"accent"`
	Session     string `toml:"session"`
	Overlap     string `toml:"overlap"`
	Today       string `toml:"today"`
	Warning     string `toml:"warning"`

	Grid  GridOverrides  `toml:"grid"`
	Modal ModalOverrides `toml:"modal"`
}

// GridOverrides pins colors of the day grid that are otherwise derived.
type GridOverrides struct {
	OutsideBg  string `toml:"outside_bg"`  // lead-in and lead-out days
	OutsideFg  string `toml:"outside_fg"`
	SelectedBg string `toml:"selected_bg"` // selected day inside the period
}

// ModalOverrides pins modal colors that otherwise follow the base colors.
type ModalOverrides struct {
	Bg        string `toml:"bg"`
	Border    string `toml:"border"`
	Text      string `toml:"text"`
	Muted     string `toml:"muted"`
	Highlight string `toml:"highlight"`
}

// Load reads an embedded theme by name, case-insensitively. Unknown names
// fall back to DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = DefaultName
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return &t, nil
}

func (t *Theme) validate() error {
	required := map[string]string{
		"bg": t.Bg, "bg_highlight": t.BgHighlight, "bg_selection": t.BgSelection,
		"fg": t.Fg, "fg_muted": t.FgMuted, "accent": t.Accent,
		"session": t.Session, "overlap": t.Overlap, "today": t.Today, "warning": t.Warning,
	}
	optional := map[string]string{
		"grid.outside_bg": t.Grid.OutsideBg, "grid.outside_fg": t.Grid.OutsideFg,
		"grid.selected_bg": t.Grid.SelectedBg,
		"modal.bg": t.Modal.Bg, "modal.border": t.Modal.Border, "modal.text": t.Modal.Text,
		"modal.muted": t.Modal.Muted, "modal.highlight": t.Modal.Highlight,
	}
	for key, hex := range required {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %s = %q", ErrInvalidColor, key, hex)
		}
	}
	for key, hex := range optional {
		if hex == "" {
			continue
		}
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %s = %q", ErrInvalidColor, key, hex)
		}
	}
	return nil
}

// Available lists the embedded theme names.
func Available() []string {
	return slices.Clone(names)
}

// IsAvailable reports whether name is an embedded theme.
func IsAvailable(name string) bool {
	return slices.Contains(names, strings.ToLower(name))
}
