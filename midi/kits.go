package midi

// DrumKit maps clip (track) indices to the notes a drum machine listens on.
// Slots in order: kick, snare, closed hat, open hat, low/mid/high tom, crash,
// ride, clap, rimshot, cowbell, clave, maracas, low/high conga.
type DrumKit struct {
	Name  string
	Notes [16]uint8
}

var kits = map[string]DrumKit{
	"gm": {
		Name:  "General MIDI",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	// RD-8 puts the snare on 40 and toms on 45/48/50
	"rd8": {
		Name:  "Behringer RD-8",
		Notes: [16]uint8{36, 40, 42, 46, 45, 48, 50, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"tr8s": {
		Name:  "Roland TR-8S",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 62, 63},
	},
	// ER-1 only has ten parts; the rest repeat the GM layout
	"er1": {
		Name:  "Korg ER-1",
		Notes: [16]uint8{36, 38, 42, 46, 40, 41, 43, 49, 45, 39, 37, 56, 75, 70, 64, 63},
	},
}

// DefaultKit is used when no kit is configured
const DefaultKit = "gm"

// KitNames lists the built-in kits
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// Kit looks a kit up by name
func Kit(name string) (DrumKit, bool) {
	k, ok := kits[name]
	return k, ok
}

// Note returns the note for clip, false past the last slot
func (k DrumKit) Note(clip int) (uint8, bool) {
	if clip < 0 || clip >= len(k.Notes) {
		return 0, false
	}
	return k.Notes[clip], true
}
