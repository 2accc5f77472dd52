package sequencer

import (
	"context"
	"errors"
	"fmt"

	"fungus/debug"
	"fungus/input"
)

// View is the read-only state handed to a Display
type View struct {
	Muted        bool
	Tempo        int
	Step         int // playhead, as last reported by the scheduler
	Track        int // selected track
	SelectedStep int
	Sequence     *Sequence // private copy, safe to keep
	Subdivision  int
}

// Display shows a View. Update is called from the surface goroutine and
// must not block for long.
type Display interface {
	Update(View)
}

// DisplayFunc adapts a function to Display
type DisplayFunc func(View)

func (f DisplayFunc) Update(v View) { f(v) }

// SurfaceOptions configures NewSurface
type SurfaceOptions struct {
	Sequence    *Sequence
	Controls    PlaybackControls
	Link        Link
	Display     Display // nil discards views
	Bindings    Bindings
	Subdivision int
}

// Surface is the command loop. It owns the live Sequence and
// PlaybackControls; the scheduler only ever receives copies.
type Surface struct {
	seq      *Sequence
	controls PlaybackControls
	link     Link
	display  Display
	bindings Bindings

	subdivision  int
	track        int
	selectedStep int
	playing      int
}

// NewSurface takes ownership of a clone of opts.Sequence
func NewSurface(opts SurfaceOptions) (*Surface, error) {
	if opts.Sequence.Tracks() == 0 || opts.Sequence.Steps() == 0 {
		return nil, fmt.Errorf("surface: %w", ErrInvalidShape)
	}
	if opts.Link.Controls == nil || opts.Link.Sequences == nil {
		return nil, errors.New("surface: link channels not initialised")
	}
	if opts.Subdivision < 1 {
		opts.Subdivision = DefaultSubdivision
	}
	d := opts.Display
	if d == nil {
		d = DisplayFunc(func(View) {})
	}
	controls := opts.Controls
	controls.Tempo = ClampTempo(controls.Tempo)
	return &Surface{
		seq:         opts.Sequence.Clone(),
		controls:    controls,
		link:        opts.Link,
		display:     d,
		bindings:    opts.Bindings,
		subdivision: opts.Subdivision,
	}, nil
}

// View snapshots the current state
func (s *Surface) View() View {
	return View{
		Muted:        s.controls.Muted,
		Tempo:        s.controls.Tempo,
		Step:         s.playing,
		Track:        s.track,
		SelectedStep: s.selectedStep,
		Sequence:     s.seq.Clone(),
		Subdivision:  s.subdivision,
	}
}

// Run dispatches commands, input events and step reports until ctx is
// cancelled. Either source channel may be nil.
func (s *Surface) Run(ctx context.Context, commands <-chan Command, events <-chan input.Event) error {
	s.refresh()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-commands:
			s.handle(cmd)
		case ev := <-events:
			s.handle(s.bindings.Resolve(ev))
		case step := <-s.link.Steps:
			s.playing = step
			s.refresh()
		}
	}
}

func (s *Surface) handle(cmd Command) {
	if err := s.Apply(cmd); err != nil {
		debug.Warn("surface", "%s: %v", cmd, err)
	}
	s.refresh()
}

func (s *Surface) refresh() {
	s.display.Update(s.View())
}

// Apply executes one command. Selection moves are clamped to the grid;
// unknown commands do nothing.
func (s *Surface) Apply(cmd Command) error {
	if level, ok := cmd.Accent(); ok {
		if err := s.seq.Set(s.track, s.selectedStep, level); err != nil {
			return err
		}
		s.publishSequence()
		return nil
	}

	switch cmd {
	case CommandTrackPrev:
		s.track = clamp(s.track-1, s.seq.Tracks())
	case CommandTrackNext:
		s.track = clamp(s.track+1, s.seq.Tracks())
	case CommandStepPrev:
		s.selectedStep = clamp(s.selectedStep-1, s.seq.Steps())
	case CommandStepNext:
		s.selectedStep = clamp(s.selectedStep+1, s.seq.Steps())
	case CommandClearTrack:
		if err := s.seq.ClearTrack(s.track); err != nil {
			return err
		}
		s.publishSequence()
	case CommandClearAll:
		s.seq.ClearAll()
		s.publishSequence()
	case CommandToggleMute:
		s.controls.Muted = !s.controls.Muted
		s.publishControls()
	case CommandTempoUp:
		s.setControls(s.controls.WithTempo(1))
	case CommandTempoDown:
		s.setControls(s.controls.WithTempo(-1))
	default:
		debug.Log("surface", "ignoring %s", cmd)
	}
	return nil
}

// clamp keeps i within [0, n-1]
func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (s *Surface) setControls(c PlaybackControls) {
	if c == s.controls {
		return
	}
	s.controls = c
	s.publishControls()
}

func (s *Surface) publishSequence() {
	if !offer(s.link.Sequences, s.seq.Clone()) {
		debug.Log("surface", "replaced unread sequence snapshot")
	}
}

func (s *Surface) publishControls() {
	if !offer(s.link.Controls, s.controls) {
		debug.Log("surface", "replaced unread controls")
	}
}
