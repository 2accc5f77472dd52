package sequencer

import "time"

// Clock is a monotonic tick counter whose rate can be reprogrammed
type Clock interface {
	// Ticks returns the number of whole ticks elapsed since the clock started
	Ticks() int64
	// SetRate changes the tick rate from now on. Ticks already counted are
	// never altered and the phase within the current tick carries over.
	SetRate(ticksPerMinute float64)
	// Reset restarts the count at zero from now, keeping the rate
	Reset()
}

// TempoClock derives ticks from the monotonic wall clock.
// Not safe for concurrent use; the scheduler owns it.
type TempoClock struct {
	now    func() time.Time
	anchor time.Time     // start of the tick that contains base
	base   int64         // ticks completed before anchor
	period time.Duration // length of one tick
}

// NewTempoClock starts a clock at ticksPerMinute
func NewTempoClock(ticksPerMinute float64) *TempoClock {
	return newTempoClock(ticksPerMinute, time.Now)
}

func newTempoClock(ticksPerMinute float64, now func() time.Time) *TempoClock {
	return &TempoClock{
		now:    now,
		anchor: now(),
		period: periodFor(ticksPerMinute),
	}
}

func periodFor(ticksPerMinute float64) time.Duration {
	if ticksPerMinute <= 0 {
		ticksPerMinute = 1
	}
	p := time.Duration(float64(time.Minute) / ticksPerMinute)
	if p <= 0 {
		p = 1
	}
	return p
}

// Period returns the current tick length
func (c *TempoClock) Period() time.Duration {
	return c.period
}

func (c *TempoClock) Ticks() int64 {
	elapsed := c.now().Sub(c.anchor)
	if elapsed < 0 {
		return c.base
	}
	return c.base + int64(elapsed/c.period)
}

func (c *TempoClock) SetRate(ticksPerMinute float64) {
	next := periodFor(ticksPerMinute)
	if next == c.period {
		return
	}
	now := c.now()
	elapsed := now.Sub(c.anchor)
	if elapsed < 0 {
		elapsed = 0
	}
	whole := elapsed / c.period
	frac := elapsed % c.period

	// fold completed ticks into base, rescale the partial tick to the new period
	c.base += int64(whole)
	phase := time.Duration(float64(frac) / float64(c.period) * float64(next))
	c.anchor = now.Add(-phase)
	c.period = next
}

func (c *TempoClock) Reset() {
	c.anchor = c.now()
	c.base = 0
}
