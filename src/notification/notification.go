// Package notification surfaces errors to users who launched cleave from a
// hotkey or the tray and have no terminal to read.
package notification

import (
	"log"
	"unicode/utf8"
)

// maxMessage caps the text shown in a dialog.
const maxMessage = 400

// ShowError logs the message and, where the platform has one, shows a
// blocking error dialog.
func ShowError(title, message string) {
	log.Printf("%s: %s", title, message)
	if err := showDialog(title, summarize(message, maxMessage)); err != nil {
		log.Printf("Failed to show notification: %v", err)
	}
}

// summarize truncates text to at most n runes, marking the cut with "...".
func summarize(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
