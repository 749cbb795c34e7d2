// Package singleinstance lets one resident cleave-daemon own a loopback TCP
// port so later invocations can detect it and ask it to capture or quit.
package singleinstance

import (
	"context"
)

// Server owns the TCP endpoint and answers resident requests.
type Server interface {
	// Start binds the first port of the range. It fails when the port is taken.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or the ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn is one client request waiting for its answer.
type Conn interface {
	Request() Request
	// RespondSuccess reports success with an optional message.
	RespondSuccess(msg string) error
	// RespondError reports a human-readable failure.
	RespondError(msg string) error
	Close() error
}

// Kind is the action a client asks the resident to perform.
type Kind int

const (
	// Capture fires the hotkey hand-off as if the hotkey had been pressed.
	Capture Kind = iota
	// Quit stops the resident.
	Quit
)

func (k Kind) String() string {
	switch k {
	case Capture:
		return "CAPTURE"
	case Quit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}

// Request is a single client request.
type Request struct {
	Kind Kind
}

// Client talks to a resident.
type Client interface {
	// Send scans the range for a resident and delivers kind to it. When no
	// resident answers, delegated is false and err is nil.
	Send(ctx context.Context, kind Kind) (delegated bool, msg string, err error)
}

// NewServer returns the TCP implementation bound to r.
func NewServer(r PortRange) Server { return newTcpServer(r) }

// NewClient returns the TCP implementation scanning r.
func NewClient(r PortRange) Client { return newTcpClient(r) }
