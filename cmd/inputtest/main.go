package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"fungus/input"
	"fungus/midi"
	"fungus/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "poll":
		pollLines(os.Args[2:])
	case "notes":
		watchNotes(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Input Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                          - List all MIDI ports")
	fmt.Println("  poll A:B [A:B...] [!]PIN...   - Poll encoders (A:B) and buttons (! = active low)")
	fmt.Println("  notes [match]                 - Print note-ons from matching MIDI inputs")
}

func listPorts() {
	fmt.Println("=== MIDI Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins, outs []string
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.InPortNames(), outs: midi.OutPortNames()}
	}()

	select {
	case r := <-ch:
		fmt.Println("Inputs:")
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p)
		}
		fmt.Println("Outputs:")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI driver is hung.")
	}
}

func pollLines(args []string) {
	var encoders []input.EncoderPins
	var buttons []input.ButtonPin
	for _, a := range args {
		if pins := strings.SplitN(a, ":", 2); len(pins) == 2 {
			encoders = append(encoders, input.EncoderPins{A: pins[0], B: pins[1]})
			continue
		}
		activeLow := strings.HasPrefix(a, "!")
		buttons = append(buttons, input.ButtonPin{Pin: strings.TrimPrefix(a, "!"), ActiveLow: activeLow})
	}
	if len(encoders) == 0 && len(buttons) == 0 {
		usage()
		return
	}

	encs, btns, err := input.OpenGPIO(encoders, buttons)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
	p := input.NewPoller(input.PollerOptions{Encoders: encs, Buttons: btns})
	bindings := sequencer.DefaultBindings()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go p.Run(ctx)

	fmt.Printf("Polling %d encoders, %d buttons. Ctrl+C to stop.\n", len(encs), len(btns))
	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\n%d events dropped\n", p.Dropped())
			return
		case ev := <-p.Events():
			switch ev.Kind {
			case input.EncoderTurned:
				fmt.Printf("encoder %d %+d -> %s\n", ev.Index, ev.Direction, bindings.Resolve(ev))
			case input.ButtonPressed:
				fmt.Printf("button %d -> %s\n", ev.Index, bindings.Resolve(ev))
			}
		}
	}
}

func watchNotes(args []string) {
	match := ""
	if len(args) > 0 {
		match = args[0]
	}
	dm := midi.NewDeviceManager(match)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go dm.Run(ctx)

	fmt.Println("Watching MIDI inputs. Ctrl+C to stop.")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-dm.Events():
			if !ok {
				return
			}
			if ev.Type == midi.DeviceDisconnected {
				fmt.Println("- disconnected:", ev.ID)
				continue
			}
			fmt.Println("+ connected:", ev.ID)
			go func(c midi.Controller) {
				for n := range c.NoteEvents() {
					fmt.Printf("%s: note %d velocity %d\n", c.ID(), n.Note, n.Velocity)
				}
			}(ev.Controller)
		}
	}
}
