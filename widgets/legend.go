package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fungus/sequencer"
	"fungus/theme"
)

// RenderCell renders one grid cell in its accent colour
func RenderCell(th *theme.Theme, a sequencer.AccentLevel) string {
	return lipgloss.NewStyle().Foreground(th.Level(a)).Render(string(a.Symbol()))
}

// RenderLegendItem renders a single legend item: "# loud"
func RenderLegendItem(th *theme.Theme, a sequencer.AccentLevel, key string) string {
	return fmt.Sprintf("%s %s(%s)", RenderCell(th, a), a, key)
}

// legendKeys are the keyboard keys that write each level
var legendKeys = [...]string{
	sequencer.Silent:  "x",
	sequencer.Soft:    "1",
	sequencer.Regular: "2",
	sequencer.Loud:    "3",
}

// RenderLegend lists every accent level on one line
func RenderLegend(th *theme.Theme) string {
	items := make([]string, 0, len(legendKeys))
	for a, key := range legendKeys {
		items = append(items, RenderLegendItem(th, sequencer.AccentLevel(a), key))
	}
	return strings.Join(items, "  ")
}
