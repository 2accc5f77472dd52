package widgets

import (
	"strings"
	"testing"

	"fungus/theme"
)

func TestRenderLegend(t *testing.T) {
	out := RenderLegend(theme.Default())
	for _, want := range []string{"silent(x)", "soft(1)", "regular(2)", "loud(3)", "#", "_"} {
		if !strings.Contains(out, want) {
			t.Errorf("legend %q is missing %q", out, want)
		}
	}
}
