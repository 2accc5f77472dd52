package theme

import (
	"os"
	"path/filepath"
	"testing"

	"fungus/sequencer"
)

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.gpl")
	data := "GIMP Palette\nName: mono\nColumns: 2\n# comment\n0 0 0\tblack\n255 255 255\twhite\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL: %v", err)
	}
	if p.Name != "mono" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if got := p.Lookup(0.5); got != (RGB{127, 127, 127}) {
		t.Errorf("Lookup(0.5) = %v", got)
	}
	if got := p.Lookup(2); got != (RGB{255, 255, 255}) {
		t.Errorf("Lookup(2) = %v", got)
	}

	empty := filepath.Join(t.TempDir(), "empty.gpl")
	_ = os.WriteFile(empty, []byte("GIMP Palette\n"), 0644)
	if _, err := LoadGPL(empty); err == nil {
		t.Error("empty palette should fail")
	}
}

func TestLevelColoursAreDistinct(t *testing.T) {
	th := Default()
	seen := map[RGB]sequencer.AccentLevel{}
	for a := sequencer.Silent; a <= sequencer.Loud; a++ {
		c := th.LevelRGB(a)
		if prev, dup := seen[c]; dup {
			t.Errorf("%v and %v share colour %v", prev, a, c)
		}
		seen[c] = a
	}
}
