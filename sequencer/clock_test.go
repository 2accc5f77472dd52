package sequencer

import (
	"testing"
	"time"
)

// fakeTime is a hand-driven monotonic clock
type fakeTime struct {
	t time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{t: time.Unix(1000, 0)}
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func (f *fakeTime) set(start time.Time, d time.Duration) { f.t = start.Add(d) }

func TestTempoClockTicks(t *testing.T) {
	ft := newFakeTime()
	c := newTempoClock(TicksPerMinute(120, 4, 1), ft.now)

	if p := c.Period(); p != 125*time.Millisecond {
		t.Fatalf("period = %v, want 125ms", p)
	}
	tests := []struct {
		at   time.Duration
		want int64
	}{
		{0, 0},
		{124 * time.Millisecond, 0},
		{125 * time.Millisecond, 1},
		{999 * time.Millisecond, 7},
		{time.Second, 8},
	}
	start := ft.t
	for _, tt := range tests {
		ft.set(start, tt.at)
		if got := c.Ticks(); got != tt.want {
			t.Errorf("Ticks() at %v = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestTempoClockRateChangeKeepsPhase(t *testing.T) {
	ft := newFakeTime()
	c := newTempoClock(120, ft.now) // 500ms ticks

	ft.advance(1250 * time.Millisecond) // 2.5 ticks
	if got := c.Ticks(); got != 2 {
		t.Fatalf("ticks before change = %d, want 2", got)
	}

	c.SetRate(240) // 250ms ticks, half a tick still pending
	if got := c.Ticks(); got != 2 {
		t.Fatalf("ticks right after change = %d, want 2", got)
	}
	ft.advance(124 * time.Millisecond)
	if got := c.Ticks(); got != 2 {
		t.Errorf("ticks 124ms after change = %d, want 2", got)
	}
	ft.advance(time.Millisecond)
	if got := c.Ticks(); got != 3 {
		t.Errorf("ticks 125ms after change = %d, want 3", got)
	}
	ft.advance(250 * time.Millisecond)
	if got := c.Ticks(); got != 4 {
		t.Errorf("ticks one new period later = %d, want 4", got)
	}
}

func TestTempoClockNeverSkips(t *testing.T) {
	ft := newFakeTime()
	c := newTempoClock(TicksPerMinute(100, 4, 1), ft.now)
	last := c.Ticks()
	tempo := 100
	for i := 0; i < 5000; i++ {
		ft.advance(time.Millisecond)
		if i%37 == 0 {
			tempo = MinTempo + (tempo*7+13)%(MaxTempo-MinTempo)
			c.SetRate(TicksPerMinute(tempo, 4, 1))
		}
		now := c.Ticks()
		if now < last || now > last+1 {
			t.Fatalf("ticks jumped from %d to %d at %dms", last, now, i)
		}
		last = now
	}
}

func TestTicksPerMinute(t *testing.T) {
	tests := []struct {
		tempo, sub, tps int
		want            float64
	}{
		{120, 4, 1, 480},
		{120, 1, 1, 120},
		{90, 4, 6, 2160},
		{5, 4, 1, float64(MinTempo * 4)},
		{120, 0, 0, 120},
	}
	for _, tt := range tests {
		if got := TicksPerMinute(tt.tempo, tt.sub, tt.tps); got != tt.want {
			t.Errorf("TicksPerMinute(%d, %d, %d) = %v, want %v", tt.tempo, tt.sub, tt.tps, got, tt.want)
		}
	}
}

func TestControlsTempoFloor(t *testing.T) {
	c := PlaybackControls{Tempo: MinTempo}
	if got := c.WithTempo(-1).Tempo; got != MinTempo {
		t.Errorf("tempo below floor = %d, want %d", got, MinTempo)
	}
	c.Tempo = MaxTempo
	if got := c.WithTempo(1).Tempo; got != MaxTempo {
		t.Errorf("tempo above ceiling = %d, want %d", got, MaxTempo)
	}
	if got := DefaultControls().WithTempo(1).Tempo; got != DefaultTempo+1 {
		t.Errorf("tempo+1 = %d, want %d", got, DefaultTempo+1)
	}
}

func TestTempoClockReset(t *testing.T) {
	ft := newFakeTime()
	c := newTempoClock(TicksPerMinute(120, 1, 1), ft.now)
	ft.advance(1300 * time.Millisecond)
	if got := c.Ticks(); got != 2 {
		t.Fatalf("ticks = %d, want 2", got)
	}
	c.Reset()
	if got := c.Ticks(); got != 0 {
		t.Errorf("ticks after Reset = %d, want 0", got)
	}
	ft.advance(499 * time.Millisecond)
	if got := c.Ticks(); got != 0 {
		t.Errorf("ticks 499ms after Reset = %d, want 0", got)
	}
	ft.advance(time.Millisecond)
	if got := c.Ticks(); got != 1 {
		t.Errorf("ticks 500ms after Reset = %d, want 1", got)
	}
}
