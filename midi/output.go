package midi

import (
	"errors"
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"

	"fungus/debug"
	"fungus/sequencer"
)

var (
	ErrNoNote     = errors.New("clip has no note in kit")
	ErrNoPort     = errors.New("no matching MIDI output port")
	ErrUnknownKit = errors.New("unknown drum kit")
)

// Sender writes one MIDI message; gomidi.SendTo returns one
type Sender func(gomidi.Message) error

// Output plays clips on an external drum machine. Each trigger is a
// note-on immediately followed by its note-off.
type Output struct {
	send    Sender
	port    string
	channel uint8 // 0-15
	kit     DrumKit
}

// OutputOptions configures NewOutput
type OutputOptions struct {
	Channel int    // 1-16
	Kit     string // see KitNames
}

// OpenOutput opens the first out port whose name contains port
// (case-insensitive; empty matches the first port)
func OpenOutput(port string, opts OutputOptions) (*Output, error) {
	want := strings.ToLower(port)
	for _, p := range gomidi.GetOutPorts() {
		if !strings.Contains(strings.ToLower(p.String()), want) {
			continue
		}
		send, err := gomidi.SendTo(p)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p.String(), err)
		}
		o, err := NewOutput(send, opts)
		if err != nil {
			return nil, err
		}
		o.port = p.String()
		debug.Info("midi", "output on %q channel %d kit %s", o.port, o.channel+1, o.kit.Name)
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoPort, port)
}

// NewOutput wraps an existing sender
func NewOutput(send Sender, opts OutputOptions) (*Output, error) {
	if opts.Channel == 0 {
		opts.Channel = 10
	}
	if opts.Channel < 1 || opts.Channel > 16 {
		return nil, fmt.Errorf("midi channel %d outside 1-16", opts.Channel)
	}
	if opts.Kit == "" {
		opts.Kit = DefaultKit
	}
	kit, ok := Kit(opts.Kit)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKit, opts.Kit)
	}
	return &Output{send: send, channel: uint8(opts.Channel - 1), kit: kit}, nil
}

// Port is the name of the opened port, empty for a wrapped sender
func (o *Output) Port() string {
	return o.port
}

// Len is how many clips the kit can address
func (o *Output) Len() int {
	return len(o.kit.Notes)
}

func (o *Output) Trigger(clip int, bus sequencer.Bus) error {
	vel := Velocity(bus)
	if vel == 0 {
		return fmt.Errorf("no velocity for %s bus", bus)
	}
	note, ok := o.kit.Note(clip)
	if !ok {
		return fmt.Errorf("%w: clip %d", ErrNoNote, clip)
	}
	if err := o.send(gomidi.NoteOn(o.channel, note, vel)); err != nil {
		return fmt.Errorf("note on %d: %w", note, err)
	}
	if err := o.send(gomidi.NoteOff(o.channel, note)); err != nil {
		return fmt.Errorf("note off %d: %w", note, err)
	}
	return nil
}
