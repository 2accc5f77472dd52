package sequencer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fungus/debug"
)

// Output plays pre-decoded clips. Trigger must not block; each call may
// fail independently.
type Output interface {
	Trigger(clip int, bus Bus) error
}

// SampleBank is the set of clips an Output can play
type SampleBank interface {
	Len() int
}

// Link carries everything that crosses between the control surface and the
// scheduler. Every channel holds at most one pending value; senders replace
// a stale value instead of blocking.
type Link struct {
	Controls  chan PlaybackControls
	Sequences chan *Sequence
	Steps     chan int
}

// NewLink creates the channels shared by a Surface and a Scheduler
func NewLink() Link {
	return Link{
		Controls:  make(chan PlaybackControls, 1),
		Sequences: make(chan *Sequence, 1),
		Steps:     make(chan int, 1),
	}
}

// offer delivers v without blocking. If ch is full the pending value is
// discarded first; returns false if a value had to be dropped.
func offer[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
	return false
}

// Default scheduler timing
const (
	DefaultSubdivision  = 4
	DefaultTicksPerStep = 1
	DefaultIdle         = time.Millisecond
)

// SchedulerOptions configures NewScheduler
type SchedulerOptions struct {
	Output   Output
	Bank     SampleBank
	Clock    Clock // nil uses a TempoClock
	Link     Link
	Sequence *Sequence
	Controls PlaybackControls

	Subdivision  int           // steps per beat
	TicksPerStep int           // clock ticks per step
	Idle         time.Duration // sleep between loop iterations
}

// Scheduler is the real-time playback loop. All fields below are owned by
// the goroutine running Run.
type Scheduler struct {
	out   Output
	bank  SampleBank
	clock Clock
	link  Link
	sleep func(time.Duration)

	subdivision  int
	ticksPerStep int64
	idle         time.Duration

	// cursor
	seq       *Sequence
	step      int
	acc       int64
	lastTicks int64
	tempo     int
	muted     bool
}

// NewScheduler validates opts and returns a muted scheduler; Run unmutes it
func NewScheduler(opts SchedulerOptions) (*Scheduler, error) {
	if opts.Output == nil {
		return nil, errors.New("scheduler: no output")
	}
	if opts.Bank == nil {
		return nil, errors.New("scheduler: no sample bank")
	}
	if opts.Sequence.Tracks() == 0 || opts.Sequence.Steps() == 0 {
		return nil, fmt.Errorf("scheduler: %w", ErrInvalidShape)
	}
	if opts.Link.Controls == nil || opts.Link.Sequences == nil || opts.Link.Steps == nil {
		return nil, errors.New("scheduler: link channels not initialised")
	}
	if opts.Subdivision < 1 {
		opts.Subdivision = DefaultSubdivision
	}
	if opts.TicksPerStep < 1 {
		opts.TicksPerStep = DefaultTicksPerStep
	}
	if opts.Idle <= 0 {
		opts.Idle = DefaultIdle
	}
	tempo := ClampTempo(opts.Controls.Tempo)
	clock := opts.Clock
	if clock == nil {
		clock = NewTempoClock(TicksPerMinute(tempo, opts.Subdivision, opts.TicksPerStep))
	}

	return &Scheduler{
		out:          opts.Output,
		bank:         opts.Bank,
		clock:        clock,
		link:         opts.Link,
		sleep:        time.Sleep,
		subdivision:  opts.Subdivision,
		ticksPerStep: int64(opts.TicksPerStep),
		idle:         opts.Idle,
		seq:          opts.Sequence.Clone(),
		tempo:        tempo,
		muted:        true,
	}, nil
}

// StepInterval is the real time between two steps at tempo
func (s *Scheduler) StepInterval(tempo int) time.Duration {
	return time.Duration(float64(time.Minute) / (float64(ClampTempo(tempo)) * float64(s.subdivision)))
}

// Run plays until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	s.start()
	for {
		select {
		case <-ctx.Done():
			debug.Log("sched", "stopped at step %d", s.step)
			return nil
		default:
		}
		s.iterate()
		s.sleep(s.idle)
	}
}

// start moves the scheduler from Muted to Playing. The clock restarts here
// so time spent between NewScheduler and Run does not count toward step 0.
func (s *Scheduler) start() {
	s.clock.SetRate(s.ticksPerMinute())
	s.clock.Reset()
	s.acc = 0
	s.lastTicks = s.clock.Ticks()
	s.muted = false
	debug.Log("sched", "playing: tempo=%d subdivision=%d tracks=%d steps=%d", s.tempo, s.subdivision, s.seq.Tracks(), s.seq.Steps())
}

func (s *Scheduler) ticksPerMinute() float64 {
	return TicksPerMinute(s.tempo, s.subdivision, int(s.ticksPerStep))
}

// iterate runs one pass of the loop body
func (s *Scheduler) iterate() {
	select {
	case c := <-s.link.Controls:
		s.applyControls(c)
	default:
	}

	if s.muted {
		// keep the accumulator from growing while nothing plays
		s.lastTicks = s.clock.Ticks()
		return
	}

	select {
	case seq := <-s.link.Sequences:
		s.applySequence(seq)
	default:
	}

	now := s.clock.Ticks()
	s.acc += now - s.lastTicks
	s.lastTicks = now
	if s.acc < s.ticksPerStep {
		return
	}
	s.fire()
	// carry the overshoot into the next step; whole steps missed during a
	// stall are dropped rather than fired in a burst
	s.acc %= s.ticksPerStep
}

func (s *Scheduler) applyControls(c PlaybackControls) {
	if tempo := ClampTempo(c.Tempo); tempo != s.tempo {
		s.tempo = tempo
		s.clock.SetRate(s.ticksPerMinute())
		debug.Log("sched", "tempo -> %d", tempo)
	}
	if c.Muted != s.muted {
		s.muted = c.Muted
		s.lastTicks = s.clock.Ticks()
		debug.Log("sched", "muted=%v at step %d", s.muted, s.step)
	}
}

func (s *Scheduler) applySequence(seq *Sequence) {
	if seq.Tracks() == 0 || seq.Steps() == 0 {
		return
	}
	if seq.Tracks() != s.seq.Tracks() || s.step >= seq.Steps() {
		s.step = 0
	}
	s.seq = seq
}

// fire triggers every non-silent cell of the current step, then advances
func (s *Scheduler) fire() {
	banked := s.bank.Len()
	n := max(s.seq.Tracks(), banked)
	for track := 0; track < n; track++ {
		if track >= banked {
			continue
		}
		bus := Route(s.seq.At(track, s.step))
		if bus == BusNone {
			continue
		}
		if err := s.trigger(track, bus); err != nil {
			debug.Error("sched", "trigger track %d on %s bus at step %d: %v", track, bus, s.step, err)
		}
	}

	s.step = (s.step + 1) % s.seq.Steps()
	offer(s.link.Steps, s.step)
}

// trigger calls the output, turning a panic into an error so one bad clip
// cannot stop the transport
func (s *Scheduler) trigger(track int, bus Bus) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("output panic: %v", r)
		}
	}()
	return s.out.Trigger(track, bus)
}
