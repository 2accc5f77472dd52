package midi

// Controller is a MIDI input device used as a control surface
type Controller interface {
	ID() string
	NoteEvents() <-chan NoteEvent
	Close() error
}
