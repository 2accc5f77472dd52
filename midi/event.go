package midi

import "fungus/sequencer"

// Velocities per output bus
const (
	VelocitySoft    uint8 = 60
	VelocityRegular uint8 = 100
	VelocityLoud    uint8 = 127
)

// Velocity maps a bus to the note-on velocity that expresses it; BusNone
// and unknown buses give 0
func Velocity(b sequencer.Bus) uint8 {
	switch b {
	case sequencer.BusSoft:
		return VelocitySoft
	case sequencer.BusMain:
		return VelocityRegular
	case sequencer.BusLoud:
		return VelocityLoud
	}
	return 0
}

// NoteEvent is a note-on received from a controller
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
}
