package input

import "testing"

type ab struct{ a, b bool }

// forward is one full A-leads Gray cycle starting from rest (00)
var forward = []ab{{true, false}, {true, true}, {false, true}, {false, false}}

func feed(q *Quadrature, seq []ab) []int {
	var out []int
	for _, s := range seq {
		if d := q.Update(s.a, s.b); d != 0 {
			out = append(out, d)
		}
	}
	return out
}

func reversed(seq []ab) []ab {
	// reverse direction from rest: 01, 11, 10, 00
	out := make([]ab, 0, len(seq))
	for i := len(seq) - 2; i >= 0; i-- {
		out = append(out, seq[i])
	}
	return append(out, ab{false, false})
}

func TestQuadratureCycles(t *testing.T) {
	tests := []struct {
		name string
		seq  []ab
		want []int
	}{
		{"forward cycle", forward, []int{1}},
		{"reverse cycle", reversed(forward), []int{-1}},
		{"two forward cycles", append(append([]ab{}, forward...), forward...), []int{1, 1}},
		{"half cycle", forward[:2], nil},
		{"no movement", []ab{{false, false}, {false, false}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuadrature(DefaultStepsPerDetent)
			got := feed(q, tt.seq)
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestQuadratureIllegalJump(t *testing.T) {
	q := NewQuadrature(DefaultStepsPerDetent)

	// 00 -> 11 changes both lines at once
	if d := q.Update(true, true); d != 0 {
		t.Fatalf("illegal transition gave %d, want 0", d)
	}
	if q.sub != 0 {
		t.Fatalf("illegal transition moved the accumulator to %d", q.sub)
	}

	q.Reset(false, false)
	if got := feed(q, forward); len(got) != 1 || got[0] != 1 {
		t.Errorf("after illegal jump forward cycle = %v, want [1]", got)
	}
}

func TestQuadratureBounce(t *testing.T) {
	q := NewQuadrature(DefaultStepsPerDetent)
	// A chatters 00 -> 10 -> 00 -> 10 before the cycle completes
	seq := []ab{{true, false}, {false, false}, {true, false}, {true, true}, {false, true}, {false, false}}
	if got := feed(q, seq); len(got) != 1 || got[0] != 1 {
		t.Errorf("bouncy forward cycle = %v, want [1]", got)
	}
}

func TestQuadraturePerTransition(t *testing.T) {
	q := NewQuadrature(1)
	if got := feed(q, forward); len(got) != 4 {
		t.Errorf("stepsPerDetent=1 gave %d events, want 4", len(got))
	}
}

func TestClassify(t *testing.T) {
	for code := uint8(0); code < 16; code++ {
		prev, cur := code>>2, code&0b11
		want := 0
		switch {
		case prev == cur:
		case prev^cur == 0b11:
		default:
			// forward order is 00, 10, 11, 01
			order := map[uint8]int{0b00: 0, 0b10: 1, 0b11: 2, 0b01: 3}
			if (order[prev]+1)%4 == order[cur] {
				want = 1
			} else {
				want = -1
			}
		}
		if got := classify(code); got != want {
			t.Errorf("classify(%04b) = %d, want %d", code, got, want)
		}
	}
}
