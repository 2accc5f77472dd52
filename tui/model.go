package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fungus/debug"
	"fungus/sequencer"
	"fungus/theme"
	"fungus/widgets"
)

// Display hands views from the surface goroutine to the bubbletea program.
// Only the newest view is kept.
type Display struct {
	views chan sequencer.View
}

func NewDisplay() *Display {
	return &Display{views: make(chan sequencer.View, 1)}
}

// Update implements sequencer.Display and never blocks
func (d *Display) Update(v sequencer.View) {
	select {
	case d.views <- v:
		return
	default:
	}
	select {
	case <-d.views:
	default:
	}
	select {
	case d.views <- v:
	default:
	}
}

// ViewMsg carries a new surface view into the program
type ViewMsg sequencer.View

func ListenForViews(d *Display) tea.Cmd {
	return func() tea.Msg {
		return ViewMsg(<-d.views)
	}
}

type Model struct {
	Theme    *theme.Theme
	display  *Display
	commands chan<- sequencer.Command
	view     sequencer.View
	ready    bool
	keys     keyMap
	help     help.Model
	quitting bool
}

// NewModel sends every recognised keystroke to commands
func NewModel(d *Display, commands chan<- sequencer.Command, th *theme.Theme) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted())
	return Model{
		Theme:    th,
		display:  d,
		commands: commands,
		keys:     defaultKeys(),
		help:     h,
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForViews(m.display)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		m.send(m.keys.command(msg))

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case ViewMsg:
		m.view = sequencer.View(msg)
		m.ready = true
		return m, ListenForViews(m.display)
	}
	return m, nil
}

// send never blocks the UI; a busy surface loses the keystroke
func (m Model) send(c sequencer.Command) {
	if c == sequencer.CommandNone {
		return
	}
	select {
	case m.commands <- c:
	default:
		debug.Warn("tui", "surface busy, dropped %s", c)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  waiting for sequencer..."
	}

	v := m.view
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	state := lipgloss.NewStyle().Foreground(m.Theme.Success()).Render("PLAY")
	if v.Muted {
		state = lipgloss.NewStyle().Foreground(m.Theme.Warning()).Render("MUTE")
	}
	header := headerStyle.Render("fungus  ") + state +
		headerStyle.Render(fmt.Sprintf("  %3dbpm  step:%02d  track:%d", v.Tempo, v.Step, v.Track))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderGrid(v))
	out.WriteString("\n\n  ")
	out.WriteString(widgets.RenderLegend(m.Theme))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render("  " + m.help.View(m.keys)))
	return out.String()
}

// column is the character offset of step inside a grid row
func column(step, subdivision int) int {
	if subdivision < 1 {
		subdivision = 1
	}
	return step*2 + step/subdivision
}

func (m Model) renderGrid(v sequencer.View) string {
	seq := v.Sequence
	if seq == nil {
		return ""
	}
	sym := m.Theme.Symbols
	const indent = "    "
	width := column(seq.Steps(), v.Subdivision)

	marker := func(at int, r rune, c lipgloss.Color) string {
		line := []rune(strings.Repeat(" ", width))
		if pos := column(at, v.Subdivision); pos < len(line) {
			line[pos] = r
		}
		return indent + lipgloss.NewStyle().Foreground(c).Render(string(line))
	}

	lines := []string{marker(v.Step, sym.Playhead, m.Theme.Success())}
	cursor := lipgloss.NewStyle().Background(m.Theme.Cursor())
	for tr := 0; tr < seq.Tracks(); tr++ {
		var row strings.Builder
		if tr == v.Track {
			row.WriteString(lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Render(fmt.Sprintf(" %c%d ", sym.Track, tr)))
		} else {
			row.WriteString(fmt.Sprintf("  %d ", tr))
		}
		for st := 0; st < seq.Steps(); st++ {
			if st > 0 && st%max(v.Subdivision, 1) == 0 {
				row.WriteString(" ")
			}
			cell := widgets.RenderCell(m.Theme, seq.At(tr, st))
			if tr == v.Track && st == v.SelectedStep {
				cell = cursor.Render(cell)
			} else if (st/max(v.Subdivision, 1))%2 == 1 {
				cell = lipgloss.NewStyle().Faint(true).Render(cell)
			}
			row.WriteString(cell)
			row.WriteString(" ")
		}
		lines = append(lines, strings.TrimRight(row.String(), " "))
	}
	lines = append(lines, marker(v.SelectedStep, sym.Cursor, m.Theme.Cursor()))
	return strings.Join(lines, "\n")
}
