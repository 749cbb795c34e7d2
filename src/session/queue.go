package session

import (
	"context"
	"errors"
	"log"
)

// ErrBusy is returned by Queue.Handoff while a request is already pending.
var ErrBusy = errors.New("a capture is already pending")

// Queue carries capture requests from the daemon goroutine to the goroutine
// that runs sessions. It holds at most one pending request.
type Queue struct {
	ch chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ch: make(chan struct{}, 1)}
}

// Handoff enqueues a request. It has the shape of daemon.HandoffFunc.
func (q *Queue) Handoff() error {
	select {
	case q.ch <- struct{}{}:
		return nil
	default:
		return ErrBusy
	}
}

// Serve calls run for every request until ctx is done or stop is closed. A
// request already queued when stop closes is still served.
func (q *Queue) Serve(ctx context.Context, stop <-chan struct{}, run func(context.Context) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.ch:
			q.serveOne(ctx, run)
		case <-stop:
			select {
			case <-q.ch:
				q.serveOne(ctx, run)
			default:
			}
			return nil
		}
	}
}

func (q *Queue) serveOne(ctx context.Context, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		log.Printf("Capture session failed: %v", err)
	}
}
