package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"fungus/debug"
	"fungus/sequencer"
)

var ErrUnknownBus = errors.New("unknown output bus")

// DefaultLatency is the speaker buffer length
const DefaultLatency = 20 * time.Millisecond

// Gains are per-bus volumes in effects.Volume units: the signal is scaled
// by 2^gain, so 0 is unity and -1 is half amplitude.
type Gains struct {
	Soft float64 `yaml:"soft"`
	Main float64 `yaml:"main"`
	Loud float64 `yaml:"loud"`
}

// DefaultGains puts soft an octave of amplitude under main and loud a bit over
func DefaultGains() Gains {
	return Gains{Soft: -1, Main: 0, Loud: 0.6}
}

type bus struct {
	mixer *beep.Mixer
	vol   *effects.Volume
}

// Engine plays clips from a Bank on three gain buses mixed to the speaker
type Engine struct {
	bank   *Bank
	buses  map[sequencer.Bus]*bus
	master beep.Streamer

	lock   func()
	unlock func()
	open   bool
}

// NewEngine builds the bus graph; nothing plays until Start
func NewEngine(b *Bank, gains Gains) (*Engine, error) {
	if b == nil || b.Len() == 0 {
		return nil, ErrEmptyBank
	}
	e := &Engine{
		bank:   b,
		buses:  make(map[sequencer.Bus]*bus, 3),
		lock:   func() {},
		unlock: func() {},
	}
	var outs []beep.Streamer
	for id, g := range map[sequencer.Bus]float64{
		sequencer.BusSoft: gains.Soft,
		sequencer.BusMain: gains.Main,
		sequencer.BusLoud: gains.Loud,
	} {
		m := &beep.Mixer{}
		v := &effects.Volume{Streamer: m, Base: 2, Volume: g}
		e.buses[id] = &bus{mixer: m, vol: v}
		outs = append(outs, v)
	}
	e.master = beep.Mix(outs...)
	return e, nil
}

// Start opens the default audio device and begins playback
func (e *Engine) Start(latency time.Duration) error {
	if latency <= 0 {
		latency = DefaultLatency
	}
	sr := e.bank.Format().SampleRate
	if err := speaker.Init(sr, sr.N(latency)); err != nil {
		return errors.Wrap(err, "open audio device")
	}
	e.lock, e.unlock = speaker.Lock, speaker.Unlock
	e.open = true
	speaker.Play(e.master)
	debug.Info("audio", "speaker open: %d Hz, %v buffer, %d clips", sr, latency, e.bank.Len())
	return nil
}

// Streamer is the mixed output of all buses
func (e *Engine) Streamer() beep.Streamer {
	return e.master
}

// Len is the number of playable clips
func (e *Engine) Len() int {
	return e.bank.Len()
}

// Trigger starts a new voice of clip on bus. It only holds the speaker lock
// long enough to add the voice.
func (e *Engine) Trigger(clip int, b sequencer.Bus) error {
	dst, ok := e.buses[b]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBus, b)
	}
	voice, err := e.bank.Clip(clip)
	if err != nil {
		return err
	}
	e.lock()
	dst.mixer.Add(voice)
	e.unlock()
	return nil
}

// SetGain changes one bus volume while playing
func (e *Engine) SetGain(b sequencer.Bus, gain float64) error {
	dst, ok := e.buses[b]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBus, b)
	}
	e.lock()
	dst.vol.Volume = gain
	e.unlock()
	return nil
}

// Voices returns how many clips are still sounding on bus b
func (e *Engine) Voices(b sequencer.Bus) int {
	dst, ok := e.buses[b]
	if !ok {
		return 0
	}
	e.lock()
	defer e.unlock()
	return dst.mixer.Len()
}

// Close stops the speaker
func (e *Engine) Close() {
	if !e.open {
		return
	}
	speaker.Clear()
	speaker.Close()
	e.open = false
}
