package singleinstance

const (
	DefaultPortStart = 49610
	DefaultPortEnd   = 49620
)

// PortRange is an inclusive range of loopback ports. The resident binds
// Start; clients scan the whole range.
type PortRange struct {
	Start, End int
}

// DefaultPortRange returns the built-in range.
func DefaultPortRange() PortRange {
	return PortRange{Start: DefaultPortStart, End: DefaultPortEnd}
}

// Normalize fills zero bounds with defaults, clamps to [1024, 65535] and
// orders the bounds.
func (r PortRange) Normalize() PortRange {
	if r.Start == 0 {
		r.Start = DefaultPortStart
	}
	if r.End == 0 {
		r.End = DefaultPortEnd
	}
	if r.Start < 1024 {
		r.Start = 1024
	}
	if r.End > 65535 {
		r.End = 65535
	}
	if r.End < r.Start {
		r.Start, r.End = r.End, r.Start
	}
	return r
}
