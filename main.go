package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"fungus/audio"
	"fungus/config"
	"fungus/debug"
	"fungus/input"
	"fungus/midi"
	"fungus/sequencer"
	"fungus/theme"
	"fungus/tui"
)

var (
	configPath  string
	tracks      int
	steps       int
	tempo       int
	subdivision int
	backend     string
	headless    bool
	debugFlag   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if debugFlag {
			fmt.Fprintf(os.Stderr, "fungus: %+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "fungus: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fungus",
	Short: "Step-sequencer drum machine",
	Long: `fungus plays a grid of accented steps through the sound card or an
external MIDI drum machine. Edit it from the keyboard, from rotary encoders
and buttons on GPIO lines, or from a MIDI controller.

Examples:
  fungus
  fungus --tracks 4 --steps 16 --tempo 96
  fungus --backend midi --headless
  fungus init`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to ~/.config/fungus/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.ConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.DefaultConfig().SaveFile(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

var inputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "List MIDI ports and the configured GPIO lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		printPorts()
		fmt.Println("GPIO encoders:")
		for i, e := range cfg.Hardware.Encoders {
			fmt.Printf("  [%d] a=%s b=%s\n", i, e.A, e.B)
		}
		fmt.Println("GPIO buttons:")
		for i, b := range cfg.Hardware.Buttons {
			fmt.Printf("  [%d] %s activeLow=%v\n", i, b.Pin, b.ActiveLow)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/fungus/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write a debug log to ~/.config/fungus/debug.log")

	rootCmd.Flags().IntVar(&tracks, "tracks", 0, "Number of tracks")
	rootCmd.Flags().IntVar(&steps, "steps", 0, "Steps per track")
	rootCmd.Flags().IntVar(&tempo, "tempo", 0, "Tempo in BPM")
	rootCmd.Flags().IntVar(&subdivision, "subdivision", 0, "Steps per beat")
	rootCmd.Flags().StringVarP(&backend, "backend", "b", "", "Output backend (audio, midi)")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run without the terminal UI")

	rootCmd.AddCommand(initCmd, inputsCmd)
}

// loadConfig reads the config and applies the flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	flags := cmd.Flags()
	if flags.Changed("tracks") {
		cfg.Grid.Tracks = tracks
	}
	if flags.Changed("steps") {
		cfg.Grid.Steps = steps
	}
	if flags.Changed("tempo") {
		cfg.Transport.Tempo = tempo
	}
	if flags.Changed("subdivision") {
		cfg.Transport.Subdivision = subdivision
	}
	if flags.Changed("backend") {
		cfg.Output.Backend = config.Backend(backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	switch {
	case debugFlag:
		path := cfg.Log.File
		if path == "" {
			p, err := debug.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		return debug.EnableFile(path, "debug")
	case cfg.Log.File != "":
		return debug.EnableFile(cfg.Log.File, level)
	case headless:
		return debug.SetOutput(os.Stderr, level)
	}
	return nil
}

// outputs holds the collaborators the scheduler plays through
type outputs struct {
	out   sequencer.Output
	bank  sequencer.SampleBank
	close func()
}

func openOutput(cfg *config.Config) (*outputs, error) {
	switch cfg.Output.Backend {
	case config.BackendMIDI:
		o, err := midi.OpenOutput(cfg.Output.Port, midi.OutputOptions{Channel: cfg.Output.Channel, Kit: cfg.Output.Kit})
		if err != nil {
			return nil, errors.Wrap(err, "midi output")
		}
		return &outputs{out: o, bank: o, close: func() {}}, nil
	default:
		bank, err := audio.LoadBank(cfg.SamplePaths(), audio.DefaultSampleRate)
		if err != nil {
			return nil, errors.Wrap(err, "load samples")
		}
		engine, err := audio.NewEngine(bank, cfg.Output.Gains)
		if err != nil {
			return nil, err
		}
		if err := engine.Start(cfg.Transport.Latency); err != nil {
			return nil, err
		}
		return &outputs{out: engine, bank: engine, close: engine.Close}, nil
	}
}

func openPoller(cfg *config.Config) (*input.Poller, error) {
	if !cfg.HasHardware() {
		return nil, nil
	}
	encs, btns, err := input.OpenGPIO(cfg.EncoderPins(), cfg.ButtonPins())
	if err != nil {
		return nil, err
	}
	return input.NewPoller(input.PollerOptions{
		Encoders:       encs,
		Buttons:        btns,
		Interval:       cfg.Hardware.PollInterval,
		StepsPerDetent: cfg.Hardware.StepsPerDetent,
		DebounceBits:   cfg.Hardware.DebounceBits,
	}), nil
}

func loadTheme(cfg *config.Config) (*theme.Theme, error) {
	if cfg.Theme.Palette == "" {
		return theme.Default(), nil
	}
	p, err := theme.LoadGPL(cfg.Theme.Palette)
	if err != nil {
		return nil, err
	}
	return theme.New(p), nil
}

func printPorts() {
	fmt.Println("MIDI inputs:")
	for i, name := range midi.InPortNames() {
		fmt.Printf("  [%d] %s\n", i, name)
	}
	fmt.Println("MIDI outputs:")
	for i, name := range midi.OutPortNames() {
		fmt.Printf("  [%d] %s\n", i, name)
	}
}

// logDisplay is the headless Display
type logDisplay struct {
	last sequencer.View
}

func (d *logDisplay) Update(v sequencer.View) {
	if v.Muted != d.last.Muted || v.Tempo != d.last.Tempo {
		debug.Info("view", "tempo=%d muted=%v", v.Tempo, v.Muted)
	}
	if v.Track != d.last.Track || v.SelectedStep != d.last.SelectedStep {
		debug.Info("view", "cursor track=%d step=%d", v.Track, v.SelectedStep)
	}
	if v.Step != d.last.Step {
		debug.Log("view", "step %d", v.Step)
	}
	d.last = v
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return errors.Wrap(err, "logging")
	}
	defer debug.Disable()

	th, err := loadTheme(cfg)
	if err != nil {
		return err
	}
	bindings, err := cfg.SequencerBindings()
	if err != nil {
		return err
	}
	seq, err := sequencer.NewSequence(cfg.Grid.Tracks, cfg.Grid.Steps)
	if err != nil {
		return err
	}

	// every setup failure below ends the process before a loop starts
	out, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer out.close()
	poller, err := openPoller(cfg)
	if err != nil {
		return err
	}

	controls := sequencer.PlaybackControls{Tempo: cfg.Transport.Tempo}
	link := sequencer.NewLink()
	sched, err := sequencer.NewScheduler(sequencer.SchedulerOptions{
		Output:       out.out,
		Bank:         out.bank,
		Link:         link,
		Sequence:     seq,
		Controls:     controls,
		Subdivision:  cfg.Transport.Subdivision,
		TicksPerStep: cfg.Transport.TicksPerStep,
	})
	if err != nil {
		return err
	}

	var display sequencer.Display = &logDisplay{}
	var tuiDisplay *tui.Display
	if !headless {
		tuiDisplay = tui.NewDisplay()
		display = tuiDisplay
	}
	surface, err := sequencer.NewSurface(sequencer.SurfaceOptions{
		Sequence:    seq,
		Controls:    controls,
		Link:        link,
		Display:     display,
		Bindings:    bindings,
		Subdivision: cfg.Transport.Subdivision,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	commands := make(chan sequencer.Command, 16)
	var events <-chan input.Event
	var wg sync.WaitGroup
	goRun := func(name string, f func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				debug.Error("main", "%s: %v", name, err)
			}
		}()
	}

	if poller != nil {
		events = poller.Events()
		goRun("poller", poller.Run)
	}
	if cfg.MIDIInput.Enabled {
		dm := midi.NewDeviceManager(cfg.MIDIInput.Port)
		goRun("midi devices", func(ctx context.Context) error { dm.Run(ctx); return nil })
		goRun("midi input", func(ctx context.Context) error { dm.Forward(ctx, bindings, commands); return nil })
	}
	goRun("scheduler", sched.Run)
	goRun("surface", func(ctx context.Context) error { return surface.Run(ctx, commands, events) })

	debug.Info("main", "running %dx%d at %d bpm on %s", seq.Tracks(), seq.Steps(), controls.Tempo, cfg.Output.Backend)

	if headless {
		fmt.Fprintln(os.Stderr, "fungus running headless; ctrl+c to stop")
		<-ctx.Done()
	} else {
		p := tea.NewProgram(tui.NewModel(tuiDisplay, commands, th), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			cancel()
			wg.Wait()
			return errors.Wrap(err, "tui")
		}
	}
	cancel()
	wg.Wait()
	return nil
}
