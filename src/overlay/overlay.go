// Package overlay shows a captured frame in a window and lets the user
// select a region of it with the pointer and keyboard.
package overlay

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"cleave/src/eventloop"
	"cleave/src/selection"
)

// DefaultTitle is the window title used when Selector.Title is empty.
const DefaultTitle = "cleave: drag to select, Space to crop, Esc to cancel"

// ErrEmptyFrame is returned when there is nothing to select from.
var ErrEmptyFrame = errors.New("frame has no pixels")

// Selector opens the selection window.
type Selector struct {
	Mode  selection.Mode
	Title string
}

// finished tells the window goroutine that the selection loop returned.
type finished struct{}

type result struct {
	rect selection.Rect
	err  error
}

// Select shows frame and blocks until the user confirms a selection, which
// is returned in frame pixels, or cancels, which yields
// eventloop.ErrCancelled. It must be called from the main goroutine.
func (s Selector) Select(ctx context.Context, frame *image.RGBA) (selection.Rect, error) {
	if frame == nil || frame.Bounds().Empty() {
		return selection.Rect{}, ErrEmptyFrame
	}
	res := result{err: eventloop.ErrCancelled}
	driver.Main(func(scr screen.Screen) {
		res.rect, res.err = s.run(ctx, scr, frame)
	})
	return res.rect, res.err
}

func (s Selector) run(ctx context.Context, scr screen.Screen, frame *image.RGBA) (selection.Rect, error) {
	dim := frame.Bounds().Size()
	title := s.Title
	if title == "" {
		title = DefaultTitle
	}

	w, err := scr.NewWindow(&screen.NewWindowOptions{Width: dim.X, Height: dim.Y, Title: title})
	if err != nil {
		return selection.Rect{}, err
	}
	defer w.Release()

	buf, err := scr.NewBuffer(dim)
	if err != nil {
		return selection.Rect{}, err
	}
	defer buf.Release()
	draw.Draw(buf.RGBA(), buf.Bounds(), frame, frame.Bounds().Min, draw.Src)

	tex, err := scr.NewTexture(dim)
	if err != nil {
		return selection.Rect{}, err
	}
	defer tex.Release()
	tex.Upload(image.Point{}, buf, buf.Bounds())

	var (
		mu   sync.Mutex
		snap selection.Snapshot
	)
	loop := eventloop.New(selection.NewEngine(s.Mode), func(sn selection.Snapshot) {
		mu.Lock()
		snap = sn
		mu.Unlock()
		w.Send(paint.Event{})
	})

	events := make(chan eventloop.Event, 64)
	done := make(chan struct{})
	resCh := make(chan result, 1)
	go func() {
		rect, err := loop.Run(ctx, events)
		resCh <- result{rect: rect, err: err}
		close(done)
		w.Send(finished{})
	}()
	send := func(ev eventloop.Event) {
		select {
		case events <- ev:
		case <-done:
		}
	}

	send(eventloop.Resized{Width: float64(dim.X), Height: float64(dim.Y)})
	tr := translator{frame: dim, window: dim}
	log.Printf("Selection window open (%dx%d, mode %s)", dim.X, dim.Y, s.Mode)

	for {
		switch e := w.NextEvent().(type) {
		case finished:
			res := <-resCh
			log.Printf("Selection window closed: rect=%v err=%v", res.rect, res.err)
			return res.rect, res.err
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				send(eventloop.Closed{})
			}
		case size.Event:
			tr.window = e.Size()
		case paint.Event:
			mu.Lock()
			sn := snap
			mu.Unlock()
			render(w, tex, tr, sn)
			w.Publish()
		case mouse.Event:
			if ev, ok := tr.mouse(e); ok {
				send(ev)
			}
		case key.Event:
			if ev, ok := keyEvent(e); ok {
				send(ev)
			}
		case error:
			log.Printf("Selection window error: %v", e)
		}
	}
}
