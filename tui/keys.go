package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"fungus/sequencer"
)

type keyMap struct {
	Step   key.Binding
	Track  key.Binding
	Accent key.Binding
	Clear  key.Binding
	Mute   key.Binding
	Tempo  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Step:   key.NewBinding(key.WithKeys("h", "l", "left", "right"), key.WithHelp("h/l", "step")),
		Track:  key.NewBinding(key.WithKeys("k", "j", "up", "down"), key.WithHelp("k/j", "track")),
		Accent: key.NewBinding(key.WithKeys("x", "1", "2", "3"), key.WithHelp("x/1/2/3", "accent")),
		Clear:  key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c/C", "clear track/all")),
		Mute:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Tempo:  key.NewBinding(key.WithKeys("+", "=", "-"), key.WithHelp("+/-", "tempo")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Track, k.Accent, k.Mute, k.Tempo, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Step, k.Track},
		{k.Accent, k.Clear},
		{k.Mute, k.Tempo},
		{k.Help, k.Quit},
	}
}

// arrows mirror the vi keys
var arrows = map[tea.KeyType]sequencer.Command{
	tea.KeyLeft:  sequencer.CommandStepPrev,
	tea.KeyRight: sequencer.CommandStepNext,
	tea.KeyUp:    sequencer.CommandTrackPrev,
	tea.KeyDown:  sequencer.CommandTrackNext,
}

// command resolves a keystroke through the shared key vocabulary
func (k keyMap) command(msg tea.KeyMsg) sequencer.Command {
	if c, ok := arrows[msg.Type]; ok {
		return c
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return sequencer.CommandNone
	}
	return sequencer.CommandForKey(msg.Runes[0])
}
