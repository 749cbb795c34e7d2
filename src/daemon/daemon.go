// Package daemon implements the hotkey trigger: it folds key edges into the
// set of held keys and hands off to the capture session once per press of
// the configured hotkey.
package daemon

import (
	"context"
	"errors"
	"log"
	"time"

	"cleave/src/hotkey"
	"cleave/src/keycode"
)

// DefaultInterval is the poll interval used when Config.Interval is zero.
const DefaultInterval = 100 * time.Millisecond

// ErrListenerStopped is returned when the edge channel is closed while the
// daemon is still running.
var ErrListenerStopped = errors.New("key listener stopped")

// State is the trigger state.
type State int

const (
	// Armed waits for the hotkey.
	Armed State = iota
	// Matched has fired and waits to be re-armed.
	Matched
	// Terminated has fired in one-shot mode and will not fire again.
	Terminated
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Matched:
		return "matched"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// HandoffFunc starts the capture session. It is called once per match.
type HandoffFunc func() error

// Config configures a Daemon.
type Config struct {
	Target     hotkey.HotKey
	Interval   time.Duration
	Persistent bool
}

// Daemon is the trigger state machine. Tick, Rearm and Run must be called
// from a single goroutine; Trigger may be called from any goroutine.
type Daemon struct {
	cfg     Config
	edges   <-chan hotkey.KeyAction
	handoff HandoffFunc
	manual  chan struct{}

	pressed hotkey.PressedSet
	state   State
	// awaitRelease is the main key whose release re-arms a persistent daemon.
	awaitRelease keycode.Key
}

// New creates an armed daemon reading edges from the given channel.
func New(cfg Config, edges <-chan hotkey.KeyAction, handoff HandoffFunc) *Daemon {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Daemon{
		cfg:     cfg,
		edges:   edges,
		handoff: handoff,
		manual:  make(chan struct{}, 1),
	}
}

// State returns the current trigger state.
func (d *Daemon) State() State { return d.state }

// Held returns the keys the daemon currently believes are held.
func (d *Daemon) Held() []keycode.Key { return d.pressed.Keys() }

// Trigger requests a hand-off as if the hotkey had been pressed. The request
// is served on the next tick and obeys the same armed rules. At most one
// request is queued.
func (d *Daemon) Trigger() {
	select {
	case d.manual <- struct{}{}:
	default:
	}
}

// Rearm returns a matched persistent daemon to Armed.
func (d *Daemon) Rearm() {
	if d.state == Matched {
		d.state = Armed
		d.awaitRelease = keycode.Unknown
		log.Printf("Daemon re-armed")
	}
}

// Tick drains every queued edge without blocking, applying them in order and
// evaluating the hotkey after each one. It reports whether a hand-off
// happened. A hand-off error leaves the daemon armed with no held keys.
func (d *Daemon) Tick() (bool, error) {
	fired := false
	for d.state != Terminated {
		select {
		case a, ok := <-d.edges:
			if !ok {
				return fired, ErrListenerStopped
			}
			hit, err := d.apply(a)
			fired = fired || hit
			if err != nil {
				return fired, err
			}
		case <-d.manual:
			hit, err := d.fire(keycode.Unknown)
			fired = fired || hit
			if err != nil {
				return fired, err
			}
		default:
			return fired, nil
		}
	}
	return fired, nil
}

func (d *Daemon) apply(a hotkey.KeyAction) (bool, error) {
	d.pressed.Apply(a)

	if d.state == Matched && !a.Pressed && a.Key == d.awaitRelease {
		d.Rearm()
	}
	if d.state != Armed || !a.Pressed {
		return false, nil
	}
	if !hotkey.Matches(d.cfg.Target, d.pressed.Keys()) {
		return false, nil
	}
	return d.fire(d.cfg.Target.Key)
}

// fire performs the hand-off if armed. mainKey is the key whose release
// re-arms a persistent daemon, Unknown for manual triggers.
func (d *Daemon) fire(mainKey keycode.Key) (bool, error) {
	if d.state != Armed {
		log.Printf("Trigger ignored, daemon is %s", d.state)
		return false, nil
	}

	d.state = Matched
	log.Printf("Hotkey %s matched", d.cfg.Target)
	err := d.handoff()
	d.pressed.Clear()

	if err != nil {
		d.state = Armed
		return true, err
	}

	switch {
	case !d.cfg.Persistent:
		d.state = Terminated
	case mainKey == keycode.Unknown:
		d.state = Armed
	default:
		d.awaitRelease = mainKey
	}
	return true, nil
}

// Run ticks at the configured interval until ctx is done, the daemon
// terminates or a hand-off fails.
func (d *Daemon) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	log.Printf("Daemon listening for %s (persistent: %v, interval: %v)", d.cfg.Target, d.cfg.Persistent, d.cfg.Interval)
	for {
		if _, err := d.Tick(); err != nil {
			return err
		}
		if d.state == Terminated {
			log.Printf("Daemon terminated after one-shot hand-off")
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
