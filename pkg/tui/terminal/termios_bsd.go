//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	// TIOCSETAF drains output and discards unread input before applying.
	ioctlSetTermiosFlush = unix.TIOCSETAF
)
