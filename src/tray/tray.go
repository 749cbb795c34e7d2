// Package tray shows the daemon's system tray icon with a capture shortcut.
package tray

import (
	"log"

	"github.com/getlantern/systray"
)

// Menu describes the tray entries and their callbacks.
type Menu struct {
	Title string
	// Hotkey is shown in the tooltip.
	Hotkey    string
	OnCapture func()
	OnQuit    func()
}

func (m Menu) tooltip() string {
	if m.Hotkey == "" {
		return m.Title
	}
	return m.Title + " (" + m.Hotkey + ")"
}

// Run shows the tray icon and blocks until Quit is called or the user picks
// "Quit". It must run on the main goroutine.
func Run(m Menu) {
	systray.Run(func() { onReady(m) }, func() {
		log.Printf("Tray exited")
	})
}

// Quit removes the tray icon and makes Run return.
func Quit() { systray.Quit() }

func onReady(m Menu) {
	if icon, err := Icon(); err != nil {
		log.Printf("Failed to build tray icon: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle(m.Title)
	systray.SetTooltip(m.tooltip())

	mCapture := systray.AddMenuItem("Capture now", "Select a screen region")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Stop the capture daemon")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				log.Printf("Tray: capture requested")
				if m.OnCapture != nil {
					m.OnCapture()
				}
			case <-mQuit.ClickedCh:
				log.Printf("Tray: quit requested")
				if m.OnQuit != nil {
					m.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}
