package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"fungus/sequencer"
	"fungus/theme"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelSendsCommands(t *testing.T) {
	cmds := make(chan sequencer.Command, 8)
	m := NewModel(NewDisplay(), cmds, theme.Default())

	keys := []tea.KeyMsg{runes("l"), runes("3"), {Type: tea.KeyDown}, runes("m"), runes("0"), runes("z")}
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}

	want := []sequencer.Command{
		sequencer.CommandStepNext,
		sequencer.CommandAccentLoud,
		sequencer.CommandTrackNext,
		sequencer.CommandToggleMute,
	}
	if len(cmds) != len(want) {
		t.Fatalf("sent %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		if got := <-cmds; got != w {
			t.Errorf("command %d = %s, want %s", i, got, w)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(NewDisplay(), make(chan sequencer.Command, 1), theme.Default())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
	if next.(Model).View() != "" {
		t.Error("quitting model still renders")
	}
}

func TestModelDoesNotBlockOnBusySurface(t *testing.T) {
	cmds := make(chan sequencer.Command) // nobody reading
	m := NewModel(NewDisplay(), cmds, theme.Default())
	m.Update(runes("l"))
}

func TestDisplayKeepsNewest(t *testing.T) {
	d := NewDisplay()
	for i := 0; i < 5; i++ {
		d.Update(sequencer.View{Step: i})
	}
	msg := ListenForViews(d)()
	if v := msg.(ViewMsg); v.Step != 4 {
		t.Errorf("view step = %d, want newest (4)", v.Step)
	}
}

func TestModelRendersGrid(t *testing.T) {
	seq := sequencer.MustSequence(2, 8)
	_ = seq.Set(0, 0, sequencer.Loud)
	_ = seq.Set(1, 5, sequencer.Soft)

	m := NewModel(NewDisplay(), make(chan sequencer.Command, 1), theme.Default())
	if !strings.Contains(m.View(), "waiting") {
		t.Error("model without a view should say it is waiting")
	}

	next, cmd := m.Update(ViewMsg{Tempo: 133, Muted: true, Step: 2, Track: 1, SelectedStep: 5, Sequence: seq, Subdivision: 4})
	if cmd == nil {
		t.Error("ViewMsg should re-arm the listener")
	}
	out := next.(Model).View()
	for _, want := range []string{"133bpm", "MUTE", "step:02", "#", "-", "▼", "▲"} {
		if !strings.Contains(out, want) {
			t.Errorf("view is missing %q:\n%s", want, out)
		}
	}
}

func TestColumn(t *testing.T) {
	tests := []struct{ step, sub, want int }{
		{0, 4, 0},
		{3, 4, 6},
		{4, 4, 9},
		{8, 4, 18},
		{2, 0, 6},
	}
	for _, tt := range tests {
		if got := column(tt.step, tt.sub); got != tt.want {
			t.Errorf("column(%d, %d) = %d, want %d", tt.step, tt.sub, got, tt.want)
		}
	}
}
