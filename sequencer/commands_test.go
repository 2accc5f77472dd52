package sequencer

import "testing"

func TestCommandForKey(t *testing.T) {
	tests := []struct {
		key  rune
		want Command
	}{
		{'h', CommandStepPrev},
		{'l', CommandStepNext},
		{'k', CommandTrackPrev},
		{'j', CommandTrackNext},
		{'x', CommandAccentSilent},
		{'1', CommandAccentSoft},
		{'2', CommandAccentRegular},
		{'3', CommandAccentLoud},
		{'c', CommandClearTrack},
		{'C', CommandClearAll},
		{'m', CommandToggleMute},
		{'+', CommandTempoUp},
		{'=', CommandTempoUp},
		{'-', CommandTempoDown},
		{'0', CommandNone},
		{'z', CommandNone},
		{'s', CommandNone},
	}
	for _, tt := range tests {
		if got := CommandForKey(tt.key); got != tt.want {
			t.Errorf("CommandForKey(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestParseCommand(t *testing.T) {
	for _, c := range Commands() {
		got, err := ParseCommand(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCommand(%q) = %s, %v", c.String(), got, err)
		}
	}
	if got, err := ParseCommand(" Tempo-Up "); err != nil || got != CommandTempoUp {
		t.Errorf("ParseCommand is not case/space tolerant: %s, %v", got, err)
	}
	if got, err := ParseCommand("3"); err != nil || got != CommandAccentLoud {
		t.Errorf("ParseCommand(\"3\") = %s, %v", got, err)
	}
	for _, token := range []string{"explode", "save-pattern"} {
		if _, err := ParseCommand(token); err == nil {
			t.Errorf("ParseCommand(%q) should fail", token)
		}
	}
}

func TestCommandAccent(t *testing.T) {
	if l, ok := CommandAccentSoft.Accent(); !ok || l != Soft {
		t.Errorf("accent-soft = %v, %v", l, ok)
	}
	if _, ok := CommandClearTrack.Accent(); ok {
		t.Error("clear-track is not an accent command")
	}
	if s := Command(99).String(); s != "command(99)" {
		t.Errorf("String() = %q", s)
	}
}
