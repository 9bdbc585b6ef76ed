// ABOUTME: ProcessTerminal implements Terminal on the process's stdin/stdout via termios ioctls.
// ABOUTME: Reads go straight to read(2) so a raw-mode timeout surfaces as (0, nil), not io.EOF.

package terminal

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ProcessTerminal is a real terminal: attributes and input on in,
// window size and output on out.
type ProcessTerminal struct {
	in  *os.File
	out *os.File
}

// NewProcessTerminal returns a ProcessTerminal on os.Stdin and os.Stdout.
func NewProcessTerminal() *ProcessTerminal {
	return NewFileTerminal(os.Stdin, os.Stdout)
}

// NewFileTerminal returns a ProcessTerminal on the given files, which are
// normally both the same tty.
func NewFileTerminal(in, out *os.File) *ProcessTerminal {
	return &ProcessTerminal{in: in, out: out}
}

// IsTerminal reports whether the input file is a terminal.
func (t *ProcessTerminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// Attributes reads the current termios settings of the input file.
func (t *ProcessTerminal) Attributes() (Attributes, error) {
	a, err := unix.IoctlGetTermios(int(t.in.Fd()), ioctlGetTermios)
	if err != nil {
		return Attributes{}, &IOError{Op: "get attributes", Err: err}
	}
	return *a, nil
}

// SetAttributes applies a after pending output is written, discarding
// unread input.
func (t *ProcessTerminal) SetAttributes(a Attributes) error {
	if err := unix.IoctlSetTermios(int(t.in.Fd()), ioctlSetTermiosFlush, &a); err != nil {
		return &IOError{Op: "set attributes", Err: err}
	}
	return nil
}

// Size asks the platform for the window size of the output file.
func (t *ProcessTerminal) Size() (cols, rows int, err error) {
	cols, rows, err = term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting window size: %w", err)
	}
	return cols, rows, nil
}

// Read performs a single read(2) on the input file. EINTR is returned
// as is; callers decide whether to retry.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	n, err := unix.Read(int(t.in.Fd()), p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Write sends bytes to the output file.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to %s: %w", t.out.Name(), err)
	}
	return n, nil
}
