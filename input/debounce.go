package input

// DefaultDebounceBits is how many consecutive pressed samples a press needs
const DefaultDebounceBits = 8

// Debouncer turns a noisy button line into one event per physical press.
//
// Each poll shifts a "released" bit into a register. A press is reported
// only when the register holds exactly one released sample followed by
// stableBits pressed samples, so holding the button reports nothing more
// and chatter inside the window collapses into a single press.
type Debouncer struct {
	state     uint16
	mask      uint16 // bits above the window, forced high
	pattern   uint16 // released, then stableBits pressed
	activeLow bool
}

// NewDebouncer creates a debouncer for a line that reads low (activeLow)
// or high when pressed. stableBits is clamped to [1, 15].
func NewDebouncer(activeLow bool, stableBits int) *Debouncer {
	if stableBits < 1 {
		stableBits = DefaultDebounceBits
	}
	if stableBits > 15 {
		stableBits = 15
	}
	// keep the window bits plus the single released bit in front of them
	mask := ^uint16(0) << (stableBits + 1)
	return &Debouncer{
		state:     0xffff,
		mask:      mask,
		pattern:   mask | 1<<stableBits,
		activeLow: activeLow,
	}
}

// Update takes the current raw line level and reports a press edge
func (d *Debouncer) Update(level bool) bool {
	released := level
	if !d.activeLow {
		released = !level
	}
	var bit uint16
	if released {
		bit = 1
	}
	d.state = d.state<<1 | bit | d.mask
	return d.state == d.pattern
}
