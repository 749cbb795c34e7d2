//go:build windows

package screenshot

import (
	"log"

	"golang.org/x/sys/windows"
)

// EnableDPIAwareness makes the process per-monitor DPI aware so captured
// frames and overlay coordinates use physical pixels. Call it before any
// window is created.
func EnableDPIAwareness() {
	shcore := windows.NewLazySystemDLL("Shcore.dll")
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	const processPerMonitorDPIAware = 2
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Printf("DPI: Successfully set per-monitor DPI awareness")
		} else {
			log.Printf("DPI: Failed to set per-monitor DPI awareness, error code: %d", ret)
		}
		return
	}

	log.Printf("DPI: Shcore.SetProcessDpiAwareness not available, trying fallback")
	user32 := windows.NewLazySystemDLL("user32.dll")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err != nil {
		log.Printf("DPI: SetProcessDPIAware not available, no DPI awareness set")
		return
	}
	if ret, _, _ := setProcessDPIAware.Call(); ret != 0 {
		log.Printf("DPI: Successfully set system DPI awareness (fallback)")
	} else {
		log.Printf("DPI: Failed to set system DPI awareness (fallback)")
	}
}
