// ABOUTME: Defines the Terminal interface for attribute control, geometry, and byte I/O.
// ABOUTME: Abstracts the controlling terminal so sessions can target a real tty or a virtual one.

package terminal

import "golang.org/x/sys/unix"

// Attributes is a snapshot of the terminal line discipline settings.
// It is a value type: copies never alias the terminal's live state.
type Attributes = unix.Termios

// Terminal abstracts low-level terminal operations: reading and applying
// attributes, window size queries, and raw byte input and output.
//
// Read must report a read timeout as (0, nil) rather than io.EOF.
type Terminal interface {
	Attributes() (Attributes, error)
	SetAttributes(a Attributes) error
	Size() (cols, rows int, err error)
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
}
