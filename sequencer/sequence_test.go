package sequencer

import (
	"errors"
	"testing"
)

func TestNewSequenceShape(t *testing.T) {
	tests := []struct {
		tracks, steps int
		wantErr       bool
	}{
		{1, 1, false},
		{8, 16, false},
		{0, 16, true},
		{4, 0, true},
		{-1, 4, true},
	}
	for _, tt := range tests {
		s, err := NewSequence(tt.tracks, tt.steps)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("NewSequence(%d, %d) err = %v, want ErrInvalidShape", tt.tracks, tt.steps, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewSequence(%d, %d): %v", tt.tracks, tt.steps, err)
		}
		if s.Tracks() != tt.tracks || s.Steps() != tt.steps {
			t.Errorf("shape = %dx%d, want %dx%d", s.Tracks(), s.Steps(), tt.tracks, tt.steps)
		}
		for tr := 0; tr < tt.tracks; tr++ {
			for st := 0; st < tt.steps; st++ {
				if a := s.At(tr, st); a != Silent {
					t.Fatalf("new cell (%d,%d) = %v, want silent", tr, st, a)
				}
			}
		}
	}
}

func TestSequenceSetGet(t *testing.T) {
	s := MustSequence(3, 8)
	for tr := 0; tr < 3; tr++ {
		for st := 0; st < 8; st++ {
			level := AccentLevel((tr + st) % 4)
			if err := s.Set(tr, st, level); err != nil {
				t.Fatalf("Set(%d, %d): %v", tr, st, err)
			}
			got, err := s.Get(tr, st)
			if err != nil {
				t.Fatalf("Get(%d, %d): %v", tr, st, err)
			}
			if got != level {
				t.Errorf("Get(%d, %d) = %v, want %v", tr, st, got, level)
			}
		}
	}
}

func TestSequenceOutOfRange(t *testing.T) {
	s := MustSequence(2, 4)
	_ = s.Set(1, 3, Loud)
	before := s.String()

	cells := [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 4}, {5, 5}}
	for _, c := range cells {
		if err := s.Set(c[0], c[1], Loud); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Set(%d, %d) err = %v, want ErrOutOfRange", c[0], c[1], err)
		}
		if _, err := s.Get(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Get(%d, %d) err = %v, want ErrOutOfRange", c[0], c[1], err)
		}
		if a := s.At(c[0], c[1]); a != Silent {
			t.Errorf("At(%d, %d) = %v, want silent", c[0], c[1], a)
		}
	}
	if err := s.ClearTrack(2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ClearTrack(2) err = %v, want ErrOutOfRange", err)
	}
	if err := s.Set(0, 0, AccentLevel(9)); !errors.Is(err, ErrInvalidAccent) {
		t.Errorf("Set invalid level err = %v, want ErrInvalidAccent", err)
	}
	if after := s.String(); after != before {
		t.Errorf("failed edits mutated grid:\n%s\nwant\n%s", after, before)
	}
}

func TestSequenceClearTrack(t *testing.T) {
	s := MustSequence(3, 4)
	for tr := 0; tr < 3; tr++ {
		for st := 0; st < 4; st++ {
			_ = s.Set(tr, st, Loud)
		}
	}
	if err := s.ClearTrack(1); err != nil {
		t.Fatalf("ClearTrack: %v", err)
	}
	want := "####\n____\n####"
	if got := s.String(); got != want {
		t.Errorf("grid =\n%s\nwant\n%s", got, want)
	}

	s.ClearAll()
	if got := s.String(); got != "____\n____\n____" {
		t.Errorf("after ClearAll =\n%s", got)
	}
}

func TestSequenceCloneIsIndependent(t *testing.T) {
	s := MustSequence(2, 4)
	_ = s.Set(0, 0, Regular)
	snap := s.Clone()

	_ = s.Set(0, 0, Loud)
	_ = s.Set(1, 3, Soft)
	_ = s.ClearTrack(0)

	if got := snap.String(); got != "+___\n____" {
		t.Errorf("snapshot changed with original:\n%s", got)
	}
	if !snap.SameShape(s) {
		t.Error("clone has a different shape")
	}

	lane, _ := snap.Track(0)
	lane[1] = Loud
	if snap.At(0, 1) != Silent {
		t.Error("Track returned shared storage")
	}
}

func TestSequenceNil(t *testing.T) {
	var s *Sequence
	if s.Tracks() != 0 || s.Steps() != 0 || s.Clone() != nil || s.At(0, 0) != Silent {
		t.Error("nil sequence accessors misbehave")
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		level AccentLevel
		want  Bus
	}{
		{Silent, BusNone},
		{Soft, BusSoft},
		{Regular, BusMain},
		{Loud, BusLoud},
		{AccentLevel(7), BusNone},
	}
	for _, tt := range tests {
		if got := Route(tt.level); got != tt.want {
			t.Errorf("Route(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
