package sequencer

// Tempo bounds in BPM
const (
	MinTempo     = 20
	MaxTempo     = 300
	DefaultTempo = 120
)

// PlaybackControls is the transport state sent to the scheduler whenever
// either field changes
type PlaybackControls struct {
	Tempo int  `yaml:"tempo"`
	Muted bool `yaml:"muted"`
}

// DefaultControls returns unmuted controls at DefaultTempo
func DefaultControls() PlaybackControls {
	return PlaybackControls{Tempo: DefaultTempo}
}

// ClampTempo keeps bpm within [MinTempo, MaxTempo]
func ClampTempo(bpm int) int {
	if bpm < MinTempo {
		bpm = MinTempo
	}
	if bpm > MaxTempo {
		bpm = MaxTempo
	}
	return bpm
}

// WithTempo returns c with the tempo moved by delta, clamped
func (c PlaybackControls) WithTempo(delta int) PlaybackControls {
	c.Tempo = ClampTempo(c.Tempo + delta)
	return c
}

// TicksPerMinute is the clock rate needed for one step every
// 60000/(tempo*subdivision) ms with ticksPerStep ticks per step
func TicksPerMinute(tempo, subdivision, ticksPerStep int) float64 {
	if subdivision < 1 {
		subdivision = 1
	}
	if ticksPerStep < 1 {
		ticksPerStep = 1
	}
	return float64(ClampTempo(tempo)) * float64(subdivision) * float64(ticksPerStep)
}
