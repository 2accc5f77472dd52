package input

// Transition codes are (previous AB << 2) | current AB.
// Forward is the A-leads sequence 00 -> 10 -> 11 -> 01 -> 00.
const (
	fwd0 = 0b0010
	fwd1 = 0b1011
	fwd2 = 0b1101
	fwd3 = 0b0100

	bwd0 = 0b0001
	bwd1 = 0b0111
	bwd2 = 0b1110
	bwd3 = 0b1000
)

// DefaultStepsPerDetent is one event per full Gray-code cycle
const DefaultStepsPerDetent = 4

// Quadrature decodes the A/B lines of one rotary encoder.
// Poll it at a fixed rate, at least ~900Hz for hand-turned knobs.
type Quadrature struct {
	last           uint8 // previous AB reading
	sub            int   // same-direction transitions since the last event
	stepsPerDetent int
}

// NewQuadrature returns a decoder emitting one event every stepsPerDetent
// valid transitions (values < 1 mean DefaultStepsPerDetent)
func NewQuadrature(stepsPerDetent int) *Quadrature {
	if stepsPerDetent < 1 {
		stepsPerDetent = DefaultStepsPerDetent
	}
	return &Quadrature{stepsPerDetent: stepsPerDetent}
}

// Reset seeds the previous reading, e.g. with the lines' idle state
func (q *Quadrature) Reset(a, b bool) {
	q.last = encode(a, b)
	q.sub = 0
}

func encode(a, b bool) uint8 {
	var v uint8
	if a {
		v |= 0b10
	}
	if b {
		v |= 0b01
	}
	return v
}

// classify maps a 4-bit transition code to +1, -1, or 0 for no movement
// and illegal two-line jumps
func classify(code uint8) int {
	switch code {
	case fwd0, fwd1, fwd2, fwd3:
		return 1
	case bwd0, bwd1, bwd2, bwd3:
		return -1
	}
	return 0
}

// Update takes the current line levels and returns +1 (clockwise),
// -1 (counter-clockwise) or 0
func (q *Quadrature) Update(a, b bool) int {
	cur := encode(a, b)
	dir := classify(q.last<<2 | cur)
	q.last = cur

	if dir == 0 {
		return 0
	}
	// contact bounce between two adjacent states cancels itself out here
	q.sub += dir
	if q.sub >= q.stepsPerDetent {
		q.sub = 0
		return 1
	}
	if q.sub <= -q.stepsPerDetent {
		q.sub = 0
		return -1
	}
	return 0
}
