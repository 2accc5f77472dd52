package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"fungus/sequencer"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols are the grid glyphs. Accent glyphs come from
// sequencer.AccentLevel.Symbol so the TUI and logs agree.
type Symbols struct {
	Playhead rune // ▼ above the playing column
	Cursor   rune // ▲ under the selected step
	Track    rune // ▶ before the selected track
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Playhead: '▼',
			Cursor:   '▲',
			Track:    '▶',
		},
	}
}

// Default uses the built-in plasma palette
func Default() *Theme {
	return New(Plasma())
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// accentRoles colours steps hotter as they get louder
var accentRoles = [...]float64{
	sequencer.Silent:  0.2,
	sequencer.Soft:    0.45,
	sequencer.Regular: 0.7,
	sequencer.Loud:    1.0,
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Level returns the colour of an accent level
func (t *Theme) Level(a sequencer.AccentLevel) lipgloss.Color {
	return rgbToLipgloss(t.LevelRGB(a))
}

// LevelRGB is Level as raw RGB
func (t *Theme) LevelRGB(a sequencer.AccentLevel) RGB {
	if !a.Valid() {
		return t.Palette.Lookup(RoleBG)
	}
	return t.Palette.Lookup(accentRoles[a])
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
