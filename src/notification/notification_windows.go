//go:build windows

package notification

import (
	"syscall"

	"github.com/lxn/win"
)

func showDialog(title, message string) error {
	t, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	m, err := syscall.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	win.MessageBox(0, m, t, win.MB_OK|win.MB_ICONERROR|win.MB_SETFOREGROUND)
	return nil
}
