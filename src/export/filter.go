package export

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Filter is a resampling filter used when scaling.
type Filter int

const (
	Nearest Filter = iota
	Triangle
	CatmullRom
	Gaussian
	Lanczos3
)

var filterNames = []string{
	Nearest:    "Nearest",
	Triangle:   "Triangle",
	CatmullRom: "CatmullRom",
	Gaussian:   "Gaussian",
	Lanczos3:   "Lanczos3",
}

func (f Filter) String() string {
	if int(f) >= 0 && int(f) < len(filterNames) {
		return filterNames[f]
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter parses a filter name case-insensitively. An empty string
// selects Nearest.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Nearest, nil
	}
	for i, name := range filterNames {
		if strings.EqualFold(s, name) {
			return Filter(i), nil
		}
	}
	return Nearest, fmt.Errorf("invalid filter %q (supported: %s)", s, strings.Join(filterNames, ", "))
}

// gaussianKernel has sigma 0.5 and support 3. draw normalizes the weights so
// the usual 1/(sigma*sqrt(2*pi)) factor is omitted.
var gaussianKernel = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		const sigma = 0.5
		return math.Exp(-t * t / (2 * sigma * sigma))
	},
}

var lanczos3Kernel = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		if t >= 3 {
			return 0
		}
		return sinc(t) * sinc(t/3)
	},
}

func sinc(t float64) float64 {
	t *= math.Pi
	return math.Sin(t) / t
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case Triangle:
		return draw.BiLinear
	case CatmullRom:
		return draw.CatmullRom
	case Gaussian:
		return gaussianKernel
	case Lanczos3:
		return lanczos3Kernel
	default:
		return draw.NearestNeighbor
	}
}
