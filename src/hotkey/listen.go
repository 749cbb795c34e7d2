package hotkey

import (
	"context"
	"log"

	gohook "github.com/robotn/gohook"

	"cleave/src/keycode"
)

// DefaultBuffer is the capacity of the edge channels returned by the
// listeners.
const DefaultBuffer = 64

// Listen starts the global keyboard hook and returns the stream of key edges
// it observes, in order. The producer blocks when the channel is full. The
// channel is closed after ctx is done or the hook stops.
func Listen(ctx context.Context, canon keycode.Canonicalizer) <-chan KeyAction {
	out := make(chan KeyAction, DefaultBuffer)

	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey hook goroutine: %v", r)
			}
		}()

		log.Printf("Starting gohook event loop (extended keys: %v)", canon.Extended())
		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}
		defer gohook.End()

		for {
			select {
			case <-ctx.Done():
				log.Printf("Hook listener stopping: %v", ctx.Err())
				return
			case ev, ok := <-evChan:
				if !ok {
					log.Printf("Hook event channel closed")
					return
				}
				action, ok := hookAction(canon, ev)
				if !ok {
					continue
				}
				select {
				case out <- action:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// hookAction converts a gohook event into a key edge. libuiohook reports a
// physical press as KeyHold and the typed character as KeyDown; the latter
// carries an undefined key code and is dropped by the canonicalizer.
func hookAction(canon keycode.Canonicalizer, ev gohook.Event) (KeyAction, bool) {
	var pressed bool
	switch ev.Kind {
	case gohook.KeyDown, gohook.KeyHold:
		pressed = true
	case gohook.KeyUp:
		pressed = false
	default:
		return KeyAction{}, false
	}
	key, ok := canon.FromHook(ev.Keycode)
	if !ok {
		return KeyAction{}, false
	}
	return KeyAction{Key: key, Pressed: pressed}, true
}
