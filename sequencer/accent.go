package sequencer

import "fmt"

// AccentLevel is the intensity of a single step
type AccentLevel uint8

const (
	Silent AccentLevel = iota // never triggers
	Soft
	Regular
	Loud
)

// accentSymbols match the grid rendering used by the display and String()
var accentSymbols = [...]rune{
	Silent:  '_',
	Soft:    '-',
	Regular: '+',
	Loud:    '#',
}

var accentNames = [...]string{
	Silent:  "silent",
	Soft:    "soft",
	Regular: "regular",
	Loud:    "loud",
}

// Valid reports whether a is one of the four defined levels
func (a AccentLevel) Valid() bool {
	return a <= Loud
}

func (a AccentLevel) String() string {
	if !a.Valid() {
		return fmt.Sprintf("accent(%d)", uint8(a))
	}
	return accentNames[a]
}

// Symbol returns the single-rune grid glyph for a
func (a AccentLevel) Symbol() rune {
	if !a.Valid() {
		return '?'
	}
	return accentSymbols[a]
}

// Bus identifies an output bus on the audio collaborator
type Bus uint8

const (
	BusNone Bus = iota // no trigger
	BusSoft            // lower gain
	BusMain            // default
	BusLoud            // higher gain
)

func (b Bus) String() string {
	switch b {
	case BusNone:
		return "none"
	case BusSoft:
		return "soft"
	case BusMain:
		return "main"
	case BusLoud:
		return "loud"
	}
	return fmt.Sprintf("bus(%d)", uint8(b))
}

// Route resolves an accent level to the bus it triggers on.
// Silent (and anything undefined) never triggers.
func Route(a AccentLevel) Bus {
	switch a {
	case Soft:
		return BusSoft
	case Regular:
		return BusMain
	case Loud:
		return BusLoud
	}
	return BusNone
}
