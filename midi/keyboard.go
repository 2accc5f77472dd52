package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KeyboardController forwards note-ons from a MIDI keyboard or pad
type KeyboardController struct {
	id       string
	stopFunc func()
	notes    chan NoteEvent
}

// NewKeyboardController starts listening on inPort
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:    id,
		notes: make(chan NoteEvent, 32),
	}
	stop, err := gomidi.ListenTo(inPort, kb.handle)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", id, err)
	}
	kb.stopFunc = stop
	return kb, nil
}

// handle runs on the driver's goroutine and never blocks it
func (kb *KeyboardController) handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8
	if !msg.GetNoteOn(&channel, &note, &velocity) || velocity == 0 {
		return
	}
	select {
	case kb.notes <- NoteEvent{Note: note, Velocity: velocity, Channel: channel}:
	default:
	}
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent {
	return kb.notes
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.notes)
	return nil
}
