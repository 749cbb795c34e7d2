package clipboard

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

func TestWriteImage(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("clipboard not available: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	if err := WriteImage(buf.Bytes()); err != nil {
		t.Fatalf("WriteImage() error: %v", err)
	}
	if lost == nil {
		t.Error("WriteImage() did not keep the ownership channel")
	}
}

// setLost swaps the ownership state for the duration of a test.
func setLost(t *testing.T, ch <-chan struct{}, served bool) {
	t.Helper()
	prevLost, prevServed := lost, ownerServed
	lost, ownerServed = ch, served
	t.Cleanup(func() { lost, ownerServed = prevLost, prevServed })
}

func TestHold(t *testing.T) {
	taken := make(chan struct{})
	close(taken)

	tests := []struct {
		name    string
		ch      <-chan struct{}
		served  bool
		timeout time.Duration
		want    bool
	}{
		{"nothing written", nil, true, time.Second, false},
		{"platform keeps data", make(chan struct{}), false, time.Second, false},
		{"disabled", make(chan struct{}), true, 0, false},
		{"taken over", taken, true, time.Second, true},
		{"timeout", make(chan struct{}), true, 10 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLost(t, tt.ch, tt.served)
			start := time.Now()
			if got := Hold(context.Background(), tt.timeout); got != tt.want {
				t.Errorf("Hold() = %v, expected %v", got, tt.want)
			}
			if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
				t.Errorf("Hold() took %v", elapsed)
			}
		})
	}
}

func TestHoldStopsOnCancel(t *testing.T) {
	setLost(t, make(chan struct{}), true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if Hold(ctx, time.Hour) {
		t.Error("Hold() reported a hand-over after cancellation")
	}
}
