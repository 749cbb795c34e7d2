package clipboard

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"golang.design/x/clipboard"
)

var (
	writeMu  sync.Mutex
	initOnce sync.Once
	initErr  error

	// lost fires when another program takes the clipboard over from the
	// last WriteImage.
	lost <-chan struct{}

	// ownerServed reports whether the written data lives only as long as
	// this process. X11 selections are served by their owner.
	ownerServed = runtime.GOOS == "linux"
)

// Init initializes the system clipboard. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// WriteImage places PNG-encoded image data on the clipboard. Writes are
// serialized so parallel exports cannot interleave.
func WriteImage(png []byte) error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	lost = clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// Hold keeps the last written image available until another program takes
// the clipboard over, timeout passes or ctx is done. It returns immediately
// where the system keeps clipboard contents after the writer exits. The
// result reports whether ownership was handed over.
func Hold(ctx context.Context, timeout time.Duration) bool {
	writeMu.Lock()
	ch := lost
	writeMu.Unlock()
	if !ownerServed || ch == nil || timeout <= 0 {
		return false
	}

	log.Printf("Serving clipboard image for up to %v", timeout)
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-ch:
		log.Printf("Clipboard taken over by another program")
		return true
	case <-t.C:
		log.Printf("Stopped serving clipboard image after %v", timeout)
	case <-ctx.Done():
	}
	return false
}
