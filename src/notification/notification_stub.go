//go:build !windows

package notification

// showDialog is a no-op; ShowError has already logged the message.
func showDialog(title, message string) error { return nil }
