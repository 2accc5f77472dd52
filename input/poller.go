package input

import (
	"context"
	"sync/atomic"
	"time"

	"fungus/debug"
)

// DefaultPollInterval keeps encoders well above the ~900Hz they need
const DefaultPollInterval = time.Millisecond

// Line is one raw digital input; Read returns true for a high level
type Line interface {
	Read() bool
}

// EventKind distinguishes encoder turns from button presses
type EventKind uint8

const (
	EncoderTurned EventKind = iota
	ButtonPressed
)

// Event is a decoded input change
type Event struct {
	Kind      EventKind
	Index     int // encoder or button index, in configuration order
	Direction int // +1 / -1 for encoders, 0 for buttons
}

// Encoder is the A/B line pair of one rotary encoder
type Encoder struct {
	A, B Line
}

// Button is the line of one momentary button
type Button struct {
	Line      Line
	ActiveLow bool
}

// PollerOptions configures NewPoller
type PollerOptions struct {
	Encoders       []Encoder
	Buttons        []Button
	Interval       time.Duration
	StepsPerDetent int
	DebounceBits   int
	QueueSize      int // capacity of Events(); oldest events are dropped when full
}

type encoderState struct {
	lines Encoder
	dec   *Quadrature
}

type buttonState struct {
	line Line
	dec  *Debouncer
}

// Poller samples every configured line at a fixed rate and forwards only
// decoded changes. It owns the lines and decoders exclusively.
type Poller struct {
	encoders []encoderState
	buttons  []buttonState
	interval time.Duration
	events   chan Event
	dropped  atomic.Int64
}

// NewPoller builds decoders for every encoder and button
func NewPoller(opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 64
	}
	p := &Poller{
		interval: opts.Interval,
		events:   make(chan Event, opts.QueueSize),
	}
	for _, e := range opts.Encoders {
		q := NewQuadrature(opts.StepsPerDetent)
		q.Reset(e.A.Read(), e.B.Read())
		p.encoders = append(p.encoders, encoderState{lines: e, dec: q})
	}
	for _, b := range opts.Buttons {
		p.buttons = append(p.buttons, buttonState{line: b.Line, dec: NewDebouncer(b.ActiveLow, opts.DebounceBits)})
	}
	return p
}

// Events returns the outgoing event queue
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Dropped returns how many events were discarded because nobody was reading
func (p *Poller) Dropped() int64 {
	return p.dropped.Load()
}

// Run polls until ctx is cancelled
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	debug.Log("poll", "polling %d encoders, %d buttons every %v", len(p.encoders), len(p.buttons), p.interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll samples every line once
func (p *Poller) Poll() {
	for i := range p.encoders {
		e := &p.encoders[i]
		if dir := e.dec.Update(e.lines.A.Read(), e.lines.B.Read()); dir != 0 {
			p.emit(Event{Kind: EncoderTurned, Index: i, Direction: dir})
		}
	}
	for i := range p.buttons {
		b := &p.buttons[i]
		if b.dec.Update(b.line.Read()) {
			p.emit(Event{Kind: ButtonPressed, Index: i})
		}
	}
}

// emit never blocks: a full queue loses its oldest event
func (p *Poller) emit(ev Event) {
	select {
	case p.events <- ev:
		return
	default:
	}
	select {
	case <-p.events:
		n := p.dropped.Add(1)
		debug.LogEvery(16, "poll", "event queue full, dropping oldest (total %d)", n)
	default:
	}
	select {
	case p.events <- ev:
	default:
		p.dropped.Add(1)
	}
}
