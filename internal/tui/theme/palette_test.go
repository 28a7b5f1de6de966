package theme

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func darkTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#303030",
		BgSelection: "#404040",
		Fg:          "#f0f0f0",
		FgMuted:     "#808080",
		Accent:      "#ff0000",
		Session:     "#3366cc",
		Overlap:     "#cc6633",
		Today:       "#33cc66",
		Warning:     "#ffcc00",
	}
}

func lum(t *testing.T, hex string) float64 {
	t.Helper()
	c, err := colorful.Hex(hex)
	if err != nil {
		t.Fatalf("bad color %q: %v", hex, err)
	}
	return luminance(c)
}

func TestNewPalette_OutsideCellsAreRecessed(t *testing.T) {
	p := NewPalette(darkTheme())

	if p.Outside.Bg == p.Period.Bg {
		t.Fatalf("outside bg = period bg = %s", p.Outside.Bg)
	}
	if p.Outside.Number != p.Muted {
		t.Errorf("outside number = %s, want muted %s", p.Outside.Number, p.Muted)
	}
	if p.Outside.SelectedBg == p.Period.SelectedBg {
		t.Error("a selected lead-in day looks like a selected period day")
	}
	if p.Outside.TodayBg == p.Period.TodayBg {
		t.Error("today outside the period looks like today inside it")
	}
	// Outside bg sits between the base and highlight backgrounds.
	if got := lum(t, string(p.Outside.Bg)); got <= lum(t, "#101010") || got >= lum(t, "#303030") {
		t.Errorf("outside bg luminance %f not between bg and highlight", got)
	}
}

func TestNewPalette_SelectedDayIsReadable(t *testing.T) {
	th := darkTheme()
	th.BgSelection = "#e0e0e0"
	p := NewPalette(th)

	if p.Period.SelectedBg != "#e0e0e0" {
		t.Fatalf("selected bg = %s", p.Period.SelectedBg)
	}
	if p.Period.SelectedFg != "#101010" {
		t.Errorf("selected fg = %s, want the dark background color on a light selection", p.Period.SelectedFg)
	}
	if p.Period.TodayFg != "#101010" {
		t.Errorf("today fg = %s, want dark text on a bright today color", p.Period.TodayFg)
	}
}

func TestNewPalette_GridOverrides(t *testing.T) {
	th := darkTheme()
	th.Grid = GridOverrides{OutsideBg: "#000000", OutsideFg: "#555555", SelectedBg: "#224466"}
	p := NewPalette(th)

	if p.Outside.Bg != "#000000" || p.Outside.Number != "#555555" {
		t.Errorf("outside = %s/%s, want overrides", p.Outside.Bg, p.Outside.Number)
	}
	if p.Period.SelectedBg != "#224466" || p.Panel != "#224466" {
		t.Errorf("selected = %s panel = %s, want #224466", p.Period.SelectedBg, p.Panel)
	}
}

func TestNewPalette_Chips(t *testing.T) {
	tests := []struct {
		name  string
		theme *Theme
		light bool
	}{
		{name: "dark", theme: darkTheme()},
		{name: "light", light: true, theme: &Theme{
			Bg: "#f5f5f5", BgHighlight: "#eeeeee", BgSelection: "#e0e0e0",
			Fg: "#222222", FgMuted: "#777777", Accent: "#2f6feb",
			Session: "#1d8a8a", Overlap: "#c2410c", Today: "#2e7d32", Warning: "#c62828",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPalette(tt.theme)
			if p.Light != tt.light {
				t.Fatalf("Light = %t", p.Light)
			}
			session := lum(t, tt.theme.Session)
			upcoming, past := lum(t, string(p.Chips.Upcoming)), lum(t, string(p.Chips.Past))
			if tt.light {
				if !(session < upcoming && upcoming < past) {
					t.Errorf("light chips: session %f upcoming %f past %f", session, upcoming, past)
				}
			} else if !(session > upcoming && upcoming > past) {
				t.Errorf("dark chips: session %f upcoming %f past %f", session, upcoming, past)
			}
			if p.Chips.Overlap == p.Chips.Upcoming {
				t.Error("overlap chip matches the upcoming chip")
			}
			if p.Chips.PastText != p.Muted {
				t.Errorf("past text = %s, want muted", p.Chips.PastText)
			}
		})
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	p := NewPalette(darkTheme())
	if p.Modal.Bg != "#303030" {
		t.Errorf("modal bg = %s, want bg_highlight", p.Modal.Bg)
	}
	if p.Modal.Border != "#ff0000" || p.Modal.Highlight != "#ff0000" {
		t.Errorf("modal border/highlight = %s/%s, want accent", p.Modal.Border, p.Modal.Highlight)
	}

	th := darkTheme()
	th.Modal = ModalOverrides{Bg: "#202020", Border: "#00ff00"}
	p = NewPalette(th)
	if p.Modal.Bg != "#202020" || p.Modal.Border != "#00ff00" {
		t.Errorf("modal overrides ignored: %s/%s", p.Modal.Bg, p.Modal.Border)
	}
}

func TestNewPalette_NilUsesDefault(t *testing.T) {
	def, err := Load(DefaultName)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := NewPalette(nil).Period.Bg, NewPalette(def).Period.Bg; got != want {
		t.Errorf("nil palette bg = %s, want %s", got, want)
	}
}

func TestReadable(t *testing.T) {
	white, _ := colorful.Hex("#ffffff")
	black, _ := colorful.Hex("#111111")
	bg, _ := colorful.Hex("#f0f0f0")
	if got := readable(bg, white, black); got != black {
		t.Errorf("readable on light bg = %s, want dark text", got.Hex())
	}
}
