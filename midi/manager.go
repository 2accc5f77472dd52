package midi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"fungus/debug"
	"fungus/sequencer"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager watches the MIDI input ports and opens a KeyboardController
// for every port whose name contains the configured match string
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	match       string

	ports func() []string
	open  func(name string) (Controller, error)
}

// NewDeviceManager creates a manager for inputs matching match
// (case-insensitive; empty matches every input)
func NewDeviceManager(match string) *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		match:       strings.ToLower(match),
		ports:       InPortNames,
		open:        openKeyboard,
	}
}

// InPortNames lists the MIDI input ports
func InPortNames() []string {
	var names []string
	for _, p := range gomidi.GetInPorts() {
		names = append(names, p.String())
	}
	return names
}

// OutPortNames lists the MIDI output ports
func OutPortNames() []string {
	var names []string
	for _, p := range gomidi.GetOutPorts() {
		names = append(names, p.String())
	}
	return names
}

func openKeyboard(name string) (Controller, error) {
	for _, p := range gomidi.GetInPorts() {
		if p.String() == name {
			return NewKeyboardController(name, p)
		}
	}
	return nil, fmt.Errorf("input %q went away", name)
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

// scan connects new matching ports and drops vanished ones. Events are
// sent without holding the lock and are abandoned once ctx is done.
func (dm *DeviceManager) scan(ctx context.Context) {
	// port enumeration can hang on some drivers
	ch := make(chan []string, 1)
	go func() { ch <- dm.ports() }()

	var names []string
	select {
	case names = <-ch:
	case <-time.After(3 * time.Second):
		debug.Warn("midi", "port scan timed out")
		return
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if !strings.Contains(strings.ToLower(name), dm.match) {
			continue
		}
		seen[name] = true

		dm.mu.RLock()
		_, exists := dm.controllers[name]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		c, err := dm.open(name)
		if err != nil {
			debug.Warn("midi", "open %s: %v", name, err)
			continue
		}
		dm.mu.Lock()
		dm.controllers[name] = c
		dm.mu.Unlock()
		debug.Info("midi", "controller connected: %s", name)
		if !dm.emit(ctx, DeviceEvent{Type: DeviceConnected, Controller: c, ID: name}) {
			return
		}
	}

	var gone []string
	dm.mu.Lock()
	for id, c := range dm.controllers {
		if seen[id] {
			continue
		}
		c.Close()
		delete(dm.controllers, id)
		gone = append(gone, id)
	}
	dm.mu.Unlock()

	for _, id := range gone {
		debug.Info("midi", "controller disconnected: %s", id)
		if !dm.emit(ctx, DeviceEvent{Type: DeviceDisconnected, ID: id}) {
			return
		}
	}
}

func (dm *DeviceManager) emit(ctx context.Context, ev DeviceEvent) bool {
	select {
	case dm.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// Forward turns note-ons from every connected controller into commands
// using b.Notes, until ctx is cancelled or the manager stops. Unbound notes
// are dropped.
func (dm *DeviceManager) Forward(ctx context.Context, b sequencer.Bindings, out chan<- sequencer.Command) {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-dm.events:
			if !ok {
				return
			}
			if ev.Type != DeviceConnected {
				continue
			}
			wg.Add(1)
			go func(c Controller) {
				defer wg.Done()
				forwardNotes(ctx, c, b, out)
			}(ev.Controller)
		}
	}
}

func forwardNotes(ctx context.Context, c Controller, b sequencer.Bindings, out chan<- sequencer.Command) {
	notes := c.NoteEvents()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notes:
			if !ok {
				return
			}
			cmd := b.Note(n.Note)
			if cmd == sequencer.CommandNone {
				debug.Log("midi", "%s: note %d unbound", c.ID(), n.Note)
				continue
			}
			select {
			case out <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}
}
