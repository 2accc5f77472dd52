package sequencer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfRange is returned for any track or step index beyond the grid
	ErrOutOfRange = errors.New("track or step index out of bounds")
	// ErrInvalidShape is returned when a grid would have no tracks or no steps
	ErrInvalidShape = errors.New("sequence needs at least one track and one step")
	// ErrInvalidAccent is returned when writing an undefined accent level
	ErrInvalidAccent = errors.New("invalid accent level")
)

// Sequence is a tracks x steps grid of accent levels.
//
// The shape is fixed at construction. A Sequence handed to the scheduler is
// never edited again: the control surface edits its own copy and sends a
// fresh Clone on every change.
type Sequence struct {
	tracks [][]AccentLevel
	steps  int
}

// NewSequence creates an all-silent grid
func NewSequence(numTracks, numSteps int) (*Sequence, error) {
	if numTracks < 1 || numSteps < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, numTracks, numSteps)
	}
	s := &Sequence{
		tracks: make([][]AccentLevel, numTracks),
		steps:  numSteps,
	}
	for i := range s.tracks {
		s.tracks[i] = make([]AccentLevel, numSteps)
	}
	return s, nil
}

// MustSequence is NewSequence for shapes known to be valid
func MustSequence(numTracks, numSteps int) *Sequence {
	s, err := NewSequence(numTracks, numSteps)
	if err != nil {
		panic(err)
	}
	return s
}

// Tracks returns the number of tracks
func (s *Sequence) Tracks() int {
	if s == nil {
		return 0
	}
	return len(s.tracks)
}

// Steps returns the number of steps per track
func (s *Sequence) Steps() int {
	if s == nil {
		return 0
	}
	return s.steps
}

func (s *Sequence) inBounds(track, step int) bool {
	return track >= 0 && track < len(s.tracks) && step >= 0 && step < s.steps
}

// Set writes level into (track, step)
func (s *Sequence) Set(track, step int, level AccentLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAccent, level)
	}
	if !s.inBounds(track, step) {
		return fmt.Errorf("%w: track %d step %d (grid %dx%d)", ErrOutOfRange, track, step, len(s.tracks), s.steps)
	}
	s.tracks[track][step] = level
	return nil
}

// Get reads (track, step)
func (s *Sequence) Get(track, step int) (AccentLevel, error) {
	if !s.inBounds(track, step) {
		return Silent, fmt.Errorf("%w: track %d step %d (grid %dx%d)", ErrOutOfRange, track, step, len(s.tracks), s.steps)
	}
	return s.tracks[track][step], nil
}

// At reads (track, step), returning Silent for anything out of range.
// Used on the playback path where a missing cell just means no trigger.
func (s *Sequence) At(track, step int) AccentLevel {
	if s == nil || !s.inBounds(track, step) {
		return Silent
	}
	return s.tracks[track][step]
}

// ClearTrack resets every step of track to Silent
func (s *Sequence) ClearTrack(track int) error {
	if track < 0 || track >= len(s.tracks) {
		return fmt.Errorf("%w: track %d (grid has %d)", ErrOutOfRange, track, len(s.tracks))
	}
	clear(s.tracks[track])
	return nil
}

// ClearAll resets the whole grid to Silent
func (s *Sequence) ClearAll() {
	for _, t := range s.tracks {
		clear(t)
	}
}

// Track returns a copy of one lane
func (s *Sequence) Track(track int) ([]AccentLevel, error) {
	if track < 0 || track >= len(s.tracks) {
		return nil, fmt.Errorf("%w: track %d (grid has %d)", ErrOutOfRange, track, len(s.tracks))
	}
	out := make([]AccentLevel, s.steps)
	copy(out, s.tracks[track])
	return out, nil
}

// Clone returns a deep copy that shares no storage with s
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	c := &Sequence{
		tracks: make([][]AccentLevel, len(s.tracks)),
		steps:  s.steps,
	}
	for i, t := range s.tracks {
		c.tracks[i] = make([]AccentLevel, len(t))
		copy(c.tracks[i], t)
	}
	return c
}

// SameShape reports whether o has the same track and step counts as s
func (s *Sequence) SameShape(o *Sequence) bool {
	return s.Tracks() == o.Tracks() && s.Steps() == o.Steps()
}

// String renders one line per track using the accent glyphs
func (s *Sequence) String() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for i, t := range s.tracks {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, a := range t {
			b.WriteRune(a.Symbol())
		}
	}
	return b.String()
}
