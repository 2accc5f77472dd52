package sequencer

import (
	"fmt"
	"strings"
)

// Command is one control-surface action. The zero value is CommandNone.
type Command uint8

const (
	CommandNone Command = iota
	CommandTrackPrev
	CommandTrackNext
	CommandStepPrev
	CommandStepNext
	CommandAccentSilent
	CommandAccentSoft
	CommandAccentRegular
	CommandAccentLoud
	CommandClearTrack
	CommandClearAll
	CommandToggleMute
	CommandTempoUp
	CommandTempoDown

	numCommands
)

var commandTokens = [numCommands]string{
	CommandNone:          "none",
	CommandTrackPrev:     "track-prev",
	CommandTrackNext:     "track-next",
	CommandStepPrev:      "step-prev",
	CommandStepNext:      "step-next",
	CommandAccentSilent:  "accent-silent",
	CommandAccentSoft:    "accent-soft",
	CommandAccentRegular: "accent-regular",
	CommandAccentLoud:    "accent-loud",
	CommandClearTrack:    "clear-track",
	CommandClearAll:      "clear-all",
	CommandToggleMute:    "toggle-mute",
	CommandTempoUp:       "tempo-up",
	CommandTempoDown:     "tempo-down",
}

// keyCommands is the single-character vocabulary of the keyboard front end
var keyCommands = map[rune]Command{
	'k': CommandTrackPrev,
	'j': CommandTrackNext,
	'h': CommandStepPrev,
	'l': CommandStepNext,
	'x': CommandAccentSilent,
	'1': CommandAccentSoft,
	'2': CommandAccentRegular,
	'3': CommandAccentLoud,
	'c': CommandClearTrack,
	'C': CommandClearAll,
	'm': CommandToggleMute,
	'+': CommandTempoUp,
	'=': CommandTempoUp,
	'-': CommandTempoDown,
}

func (c Command) String() string {
	if c >= numCommands {
		return fmt.Sprintf("command(%d)", uint8(c))
	}
	return commandTokens[c]
}

// Accent returns the level written by an accent command
func (c Command) Accent() (AccentLevel, bool) {
	switch c {
	case CommandAccentSilent:
		return Silent, true
	case CommandAccentSoft:
		return Soft, true
	case CommandAccentRegular:
		return Regular, true
	case CommandAccentLoud:
		return Loud, true
	}
	return Silent, false
}

// CommandForKey maps a keystroke to a command; unknown keys (including the
// '0' sentinel) give CommandNone
func CommandForKey(r rune) Command {
	return keyCommands[r]
}

// ParseCommand resolves a named token ("tempo-up") or a single key ("+")
func ParseCommand(token string) (Command, error) {
	t := strings.TrimSpace(token)
	for c, name := range commandTokens {
		if strings.EqualFold(t, name) {
			return Command(c), nil
		}
	}
	if r := []rune(t); len(r) == 1 {
		if c, ok := keyCommands[r[0]]; ok {
			return c, nil
		}
	}
	return CommandNone, fmt.Errorf("unknown command %q", token)
}

// Commands lists every command except CommandNone
func Commands() []Command {
	out := make([]Command, 0, numCommands-1)
	for c := CommandNone + 1; c < numCommands; c++ {
		out = append(out, c)
	}
	return out
}
