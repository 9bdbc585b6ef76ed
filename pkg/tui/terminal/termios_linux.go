//go:build linux

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TCGETS
	// TCSETSF drains output and discards unread input before applying.
	ioctlSetTermiosFlush = unix.TCSETSF
)
