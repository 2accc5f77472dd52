package sequencer

import (
	"fmt"

	"fungus/input"
)

// EncoderBinding is the command pair of one rotary encoder
type EncoderBinding struct {
	CW  Command
	CCW Command
}

// Bindings maps hardware and MIDI input onto commands
type Bindings struct {
	Encoders []EncoderBinding
	Buttons  []Command
	Notes    map[uint8]Command
}

// DefaultBindings: encoder 0 picks the track, 1 the tempo, 2 the step
func DefaultBindings() Bindings {
	return Bindings{
		Encoders: []EncoderBinding{
			{CW: CommandTrackNext, CCW: CommandTrackPrev},
			{CW: CommandTempoUp, CCW: CommandTempoDown},
			{CW: CommandStepNext, CCW: CommandStepPrev},
		},
		Buttons: []Command{
			CommandToggleMute,
			CommandAccentRegular,
			CommandAccentSilent,
			CommandClearTrack,
		},
		Notes: map[uint8]Command{},
	}
}

// BindingTokens is the textual form of Bindings used in config files
type BindingTokens struct {
	Encoders [][2]string // {clockwise, counter-clockwise}
	Buttons  []string
	Notes    map[int]string
}

// ParseBindings resolves every token; an unknown token is an error
func ParseBindings(t BindingTokens) (Bindings, error) {
	b := Bindings{Notes: make(map[uint8]Command, len(t.Notes))}
	for i, pair := range t.Encoders {
		cw, err := ParseCommand(pair[0])
		if err != nil {
			return Bindings{}, fmt.Errorf("encoder %d: %w", i, err)
		}
		ccw, err := ParseCommand(pair[1])
		if err != nil {
			return Bindings{}, fmt.Errorf("encoder %d: %w", i, err)
		}
		b.Encoders = append(b.Encoders, EncoderBinding{CW: cw, CCW: ccw})
	}
	for i, tok := range t.Buttons {
		c, err := ParseCommand(tok)
		if err != nil {
			return Bindings{}, fmt.Errorf("button %d: %w", i, err)
		}
		b.Buttons = append(b.Buttons, c)
	}
	for note, tok := range t.Notes {
		if note < 0 || note > 127 {
			return Bindings{}, fmt.Errorf("note %d: outside 0-127", note)
		}
		c, err := ParseCommand(tok)
		if err != nil {
			return Bindings{}, fmt.Errorf("note %d: %w", note, err)
		}
		b.Notes[uint8(note)] = c
	}
	return b, nil
}

// Resolve maps a decoded input event to its command; anything unbound is
// CommandNone
func (b Bindings) Resolve(ev input.Event) Command {
	switch ev.Kind {
	case input.EncoderTurned:
		if ev.Index < 0 || ev.Index >= len(b.Encoders) {
			return CommandNone
		}
		switch {
		case ev.Direction > 0:
			return b.Encoders[ev.Index].CW
		case ev.Direction < 0:
			return b.Encoders[ev.Index].CCW
		}
	case input.ButtonPressed:
		if ev.Index >= 0 && ev.Index < len(b.Buttons) {
			return b.Buttons[ev.Index]
		}
	}
	return CommandNone
}

// Note maps a MIDI note-on to its command
func (b Bindings) Note(key uint8) Command {
	return b.Notes[key]
}
