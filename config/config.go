package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fungus/audio"
	"fungus/input"
	"fungus/sequencer"
)

// Backend selects the Output collaborator
type Backend string

const (
	BackendAudio Backend = "audio"
	BackendMIDI  Backend = "midi"
)

// GridConfig is the sequence shape
type GridConfig struct {
	Tracks int `yaml:"tracks"`
	Steps  int `yaml:"steps"`
}

// TransportConfig is the timing setup
type TransportConfig struct {
	Tempo        int           `yaml:"tempo"`
	Subdivision  int           `yaml:"subdivision"`
	TicksPerStep int           `yaml:"ticksPerStep"`
	Latency      time.Duration `yaml:"latency,omitempty"` // speaker buffer
}

// SamplesConfig lists the clips, one per track. With no Files, Dir/0.ogg
// .. Dir/(tracks-1).ogg are loaded.
type SamplesConfig struct {
	Dir   string   `yaml:"dir,omitempty"`
	Files []string `yaml:"files,omitempty"`
}

// OutputConfig configures the audio or MIDI backend
type OutputConfig struct {
	Backend Backend     `yaml:"backend"`
	Port    string      `yaml:"port,omitempty"` // MIDI out port substring
	Channel int         `yaml:"channel,omitempty"`
	Kit     string      `yaml:"kit,omitempty"`
	Gains   audio.Gains `yaml:"gains"`
}

// EncoderConfig names an encoder's two GPIO lines
type EncoderConfig struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// ButtonConfig names a button's GPIO line
type ButtonConfig struct {
	Pin       string `yaml:"pin"`
	ActiveLow bool   `yaml:"activeLow"`
}

// HardwareConfig describes the physical control surface
type HardwareConfig struct {
	Encoders       []EncoderConfig `yaml:"encoders,omitempty"`
	Buttons        []ButtonConfig  `yaml:"buttons,omitempty"`
	PollInterval   time.Duration   `yaml:"pollInterval,omitempty"`
	StepsPerDetent int             `yaml:"stepsPerDetent,omitempty"`
	DebounceBits   int             `yaml:"debounceBits,omitempty"`
}

// EncoderBindingConfig is the command pair of one encoder
type EncoderBindingConfig struct {
	CW  string `yaml:"cw"`
	CCW string `yaml:"ccw"`
}

// BindingsConfig maps inputs to command tokens (see sequencer.ParseCommand)
type BindingsConfig struct {
	Encoders []EncoderBindingConfig `yaml:"encoders,omitempty"`
	Buttons  []string               `yaml:"buttons,omitempty"`
	Notes    map[int]string         `yaml:"notes,omitempty"`
}

// MIDIInputConfig enables MIDI controllers as a command source
type MIDIInputConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port,omitempty"` // input port substring
}

// LogConfig configures the debug log
type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// ThemeConfig picks the TUI palette
type ThemeConfig struct {
	Palette string `yaml:"palette,omitempty"` // GIMP .gpl file
}

// Config is the main configuration structure
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Transport TransportConfig `yaml:"transport"`
	Samples   SamplesConfig   `yaml:"samples"`
	Output    OutputConfig    `yaml:"output"`
	Hardware  HardwareConfig  `yaml:"hardware,omitempty"`
	Bindings  BindingsConfig  `yaml:"bindings"`
	MIDIInput MIDIInputConfig `yaml:"midiInput,omitempty"`
	Log       LogConfig       `yaml:"log,omitempty"`
	Theme     ThemeConfig     `yaml:"theme,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	b := sequencer.DefaultBindings()
	bindings := BindingsConfig{Notes: map[int]string{}}
	for _, e := range b.Encoders {
		bindings.Encoders = append(bindings.Encoders, EncoderBindingConfig{CW: e.CW.String(), CCW: e.CCW.String()})
	}
	for _, c := range b.Buttons {
		bindings.Buttons = append(bindings.Buttons, c.String())
	}
	return &Config{
		Grid: GridConfig{Tracks: 2, Steps: 16},
		Transport: TransportConfig{
			Tempo:        sequencer.DefaultTempo,
			Subdivision:  sequencer.DefaultSubdivision,
			TicksPerStep: sequencer.DefaultTicksPerStep,
			Latency:      audio.DefaultLatency,
		},
		Samples: SamplesConfig{Dir: "samples"},
		Output: OutputConfig{
			Backend: BackendAudio,
			Channel: 10,
			Kit:     "gm",
			Gains:   audio.DefaultGains(),
		},
		Hardware: HardwareConfig{
			PollInterval:   input.DefaultPollInterval,
			StepsPerDetent: input.DefaultStepsPerDetent,
			DebounceBits:   input.DefaultDebounceBits,
		},
		Bindings: bindings,
		Log:      LogConfig{Level: "debug"},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fungus"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads path on top of the defaults and validates the result
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configs the sequencer cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.Tracks < 1 || c.Grid.Steps < 1 {
		errs = append(errs, fmt.Errorf("grid %dx%d: %w", c.Grid.Tracks, c.Grid.Steps, sequencer.ErrInvalidShape))
	}
	if t := c.Transport.Tempo; t < sequencer.MinTempo || t > sequencer.MaxTempo {
		errs = append(errs, fmt.Errorf("tempo %d outside %d-%d", t, sequencer.MinTempo, sequencer.MaxTempo))
	}
	if c.Transport.Subdivision < 1 {
		errs = append(errs, fmt.Errorf("subdivision %d must be at least 1", c.Transport.Subdivision))
	}
	if c.Transport.TicksPerStep < 1 {
		errs = append(errs, fmt.Errorf("ticksPerStep %d must be at least 1", c.Transport.TicksPerStep))
	}
	switch c.Output.Backend {
	case BackendAudio, BackendMIDI:
	default:
		errs = append(errs, fmt.Errorf("unknown output backend %q", c.Output.Backend))
	}
	if ch := c.Output.Channel; c.Output.Backend == BackendMIDI && (ch < 1 || ch > 16) {
		errs = append(errs, fmt.Errorf("midi channel %d outside 1-16", ch))
	}
	if _, err := c.SequencerBindings(); err != nil {
		errs = append(errs, fmt.Errorf("bindings: %w", err))
	}
	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "trace", "debug", "info", "warn", "warning", "error":
		default:
			errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
		}
	}
	return errors.Join(errs...)
}

// SequencerBindings parses the binding tokens
func (c *Config) SequencerBindings() (sequencer.Bindings, error) {
	tok := sequencer.BindingTokens{Buttons: c.Bindings.Buttons, Notes: c.Bindings.Notes}
	for _, e := range c.Bindings.Encoders {
		tok.Encoders = append(tok.Encoders, [2]string{e.CW, e.CCW})
	}
	return sequencer.ParseBindings(tok)
}

// SamplePaths resolves the clip files for the configured grid
func (c *Config) SamplePaths() []string {
	if len(c.Samples.Files) > 0 {
		return c.Samples.Files
	}
	return audio.SamplePaths(c.Samples.Dir, c.Grid.Tracks)
}

// EncoderPins converts the hardware section for input.OpenGPIO
func (c *Config) EncoderPins() []input.EncoderPins {
	out := make([]input.EncoderPins, len(c.Hardware.Encoders))
	for i, e := range c.Hardware.Encoders {
		out[i] = input.EncoderPins{A: e.A, B: e.B}
	}
	return out
}

// ButtonPins converts the hardware section for input.OpenGPIO
func (c *Config) ButtonPins() []input.ButtonPin {
	out := make([]input.ButtonPin, len(c.Hardware.Buttons))
	for i, b := range c.Hardware.Buttons {
		out[i] = input.ButtonPin{Pin: b.Pin, ActiveLow: b.ActiveLow}
	}
	return out
}

// HasHardware reports whether any GPIO input is configured
func (c *Config) HasHardware() bool {
	return len(c.Hardware.Encoders) > 0 || len(c.Hardware.Buttons) > 0
}
