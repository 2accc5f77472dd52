package input

import (
	"fmt"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"fungus/debug"
)

var (
	ErrPinInUse    = errors.New("pin already in use")
	ErrPinNotFound = errors.New("pin not found")
)

// SetupError reports a hardware line that could not be acquired
type SetupError struct {
	Pin string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("gpio %s: %v", e.Pin, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// EncoderPins names the two lines of an encoder, e.g. "GPIO17"
type EncoderPins struct {
	A, B string
}

// ButtonPin names the line of a button
type ButtonPin struct {
	Pin       string
	ActiveLow bool
}

// PinLookup resolves a pin name; gpioreg.ByName in production
type PinLookup func(name string) gpio.PinIO

// pinLine adapts a periph pin to Line
type pinLine struct {
	pin gpio.PinIO
}

func (l pinLine) Read() bool { return bool(l.pin.Read()) }

// OpenGPIO initialises the host drivers and acquires every configured line
// as an input. Any failure is fatal to startup.
func OpenGPIO(encoders []EncoderPins, buttons []ButtonPin) ([]Encoder, []Button, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "periph host init")
	}
	return OpenLines(gpioreg.ByName, encoders, buttons)
}

// OpenLines acquires lines through lookup. Encoder lines and active-low
// buttons get a pull-up, active-high buttons a pull-down.
func OpenLines(lookup PinLookup, encoders []EncoderPins, buttons []ButtonPin) (encs []Encoder, btns []Button, err error) {
	claimed := make(map[string]bool)
	var opened []gpio.PinIO
	defer func() {
		if err != nil {
			release(opened)
		}
	}()
	open := func(name string, pull gpio.Pull) (Line, error) {
		if claimed[name] {
			return nil, &SetupError{Pin: name, Err: ErrPinInUse}
		}
		p := lookup(name)
		if p == nil {
			return nil, &SetupError{Pin: name, Err: ErrPinNotFound}
		}
		if err := p.In(pull, gpio.NoEdge); err != nil {
			return nil, &SetupError{Pin: name, Err: errors.Wrapf(err, "configure %s as input", p)}
		}
		claimed[name] = true
		opened = append(opened, p)
		return pinLine{pin: p}, nil
	}

	for i, e := range encoders {
		a, err := open(e.A, gpio.PullUp)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "encoder %d", i)
		}
		b, err := open(e.B, gpio.PullUp)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "encoder %d", i)
		}
		encs = append(encs, Encoder{A: a, B: b})
	}

	for i, b := range buttons {
		pull := gpio.PullDown
		if b.ActiveLow {
			pull = gpio.PullUp
		}
		l, err := open(b.Pin, pull)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "button %d", i)
		}
		btns = append(btns, Button{Line: l, ActiveLow: b.ActiveLow})
	}
	return encs, btns, nil
}

// release floats and halts lines claimed before a later one failed
func release(pins []gpio.PinIO) {
	for _, p := range pins {
		if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
			debug.Warn("gpio", "release %s: %v", p, err)
		}
		if err := p.Halt(); err != nil {
			debug.Warn("gpio", "halt %s: %v", p, err)
		}
	}
}
