package input

import "testing"

// samples builds a line trace from runs: p pressed, r released
func samples(pattern string) []bool {
	out := make([]bool, 0, len(pattern))
	for _, c := range pattern {
		out = append(out, c == 'p')
	}
	return out
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func countPresses(d *Debouncer, activeLow bool, trace []bool) int {
	n := 0
	for _, pressed := range trace {
		level := pressed
		if activeLow {
			level = !pressed
		}
		if d.Update(level) {
			n++
		}
	}
	return n
}

func TestDebouncer(t *testing.T) {
	tests := []struct {
		name  string
		trace string
		want  int
	}{
		{"idle", repeat("r", 50), 0},
		{"clean press", repeat("r", 10) + repeat("p", 20) + repeat("r", 20), 1},
		{"press too short", repeat("r", 10) + repeat("p", 5) + repeat("r", 20), 0},
		{"bouncy press and release", repeat("r", 5) + "prprpprpr" + repeat("p", 30) + "rprpr" + repeat("r", 20), 1},
		{"held forever", repeat("r", 3) + repeat("p", 200), 1},
		{"two presses", repeat("p", 10) + repeat("r", 10) + repeat("p", 10), 2},
	}
	for _, tt := range tests {
		for _, activeLow := range []bool{true, false} {
			name := tt.name
			if !activeLow {
				name += "/active-high"
			}
			t.Run(name, func(t *testing.T) {
				d := NewDebouncer(activeLow, DefaultDebounceBits)
				if got := countPresses(d, activeLow, samples(tt.trace)); got != tt.want {
					t.Errorf("presses = %d, want %d", got, tt.want)
				}
			})
		}
	}
}

func TestDebouncerWindow(t *testing.T) {
	d := NewDebouncer(true, 3)
	trace := samples("rrrppp")
	var fired []int
	for i, pressed := range trace {
		if d.Update(!pressed) {
			fired = append(fired, i)
		}
	}
	if len(fired) != 1 || fired[0] != 5 {
		t.Errorf("fired at %v, want [5]", fired)
	}
}

func TestNewDebouncerClamps(t *testing.T) {
	if d := NewDebouncer(true, 0); d.pattern != 0xff00 {
		t.Errorf("default pattern = %#04x, want 0xff00", d.pattern)
	}
	if d := NewDebouncer(true, 99); d.pattern != 0x8000 {
		t.Errorf("clamped pattern = %#04x, want 0x8000", d.pattern)
	}
}
