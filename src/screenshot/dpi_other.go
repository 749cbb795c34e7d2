//go:build !windows

package screenshot

// EnableDPIAwareness is a no-op outside Windows.
func EnableDPIAwareness() {}
