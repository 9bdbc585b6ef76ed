// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Scripts input reads, captures output, and records every attribute change.

package terminal

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

// ReadStep is one scripted outcome of VirtualTerminal.Read. An empty
// step with no error models a read timeout that returned zero bytes.
type ReadStep struct {
	Data []byte
	Err  error
}

// Bytes returns a step delivering s.
func Bytes(s string) ReadStep { return ReadStep{Data: []byte(s)} }

// Timeout returns a step that yields zero bytes.
func Timeout() ReadStep { return ReadStep{} }

// Fail returns a step that fails with err.
func Fail(err error) ReadStep { return ReadStep{Err: err} }

// VirtualTerminal is a fake Terminal for unit tests.
// Reads past the end of the script return io.EOF so tests never hang.
type VirtualTerminal struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	steps   []ReadStep
	attrs   Attributes
	applied []Attributes
	cols    int
	rows    int

	sizeErr  error
	getErr   error
	setErr   error
	writeErr error
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions
// and a cooked-mode attribute set.
func NewVirtualTerminal(cols, rows int) *VirtualTerminal {
	return &VirtualTerminal{
		cols:  cols,
		rows:  rows,
		attrs: cookedAttributes(),
	}
}

// Attributes returns the current attributes.
func (v *VirtualTerminal) Attributes() (Attributes, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.getErr != nil {
		return Attributes{}, v.getErr
	}
	return v.attrs, nil
}

// SetAttributes records a and makes it current.
func (v *VirtualTerminal) SetAttributes(a Attributes) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.setErr != nil {
		return v.setErr
	}
	v.attrs = a
	v.applied = append(v.applied, a)
	return nil
}

// Size returns the configured dimensions.
func (v *VirtualTerminal) Size() (cols, rows int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sizeErr != nil {
		return 0, 0, v.sizeErr
	}
	return v.cols, v.rows, nil
}

// Read plays back the next scripted step.
func (v *VirtualTerminal) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.steps) == 0 {
		return 0, io.EOF
	}
	step := &v.steps[0]
	if step.Err != nil || len(step.Data) == 0 {
		v.steps = v.steps[1:]
		return 0, step.Err
	}
	n := copy(p, step.Data)
	step.Data = step.Data[n:]
	if len(step.Data) == 0 {
		v.steps = v.steps[1:]
	}
	return n, nil
}

// Write appends data to the output buffer.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.writeErr != nil {
		return 0, v.writeErr
	}
	n, err := v.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	return n, nil
}

// cookedAttributes is a typical line-buffered, echoing configuration with
// 7-bit characters, so every raw-mode change is observable.
func cookedAttributes() Attributes {
	var a Attributes
	a.Iflag = unix.BRKINT | unix.ICRNL | unix.IXON
	a.Oflag = unix.OPOST
	a.Cflag = unix.CS7 | unix.CREAD
	a.Lflag = unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	a.Cc[unix.VMIN] = 1
	return a
}

// --- Test helpers (not part of Terminal interface) ---

// Feed appends steps to the input script.
func (v *VirtualTerminal) Feed(steps ...ReadStep) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.steps = append(v.steps, steps...)
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Reset clears the output buffer.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
}

// Applied returns every attribute set applied so far, oldest first.
func (v *VirtualTerminal) Applied() []Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]Attributes(nil), v.applied...)
}

// SetSizeError makes Size fail with err.
func (v *VirtualTerminal) SetSizeError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sizeErr = err
}

// SetAttributeErrors makes Attributes and SetAttributes fail.
// A nil error leaves that call working.
func (v *VirtualTerminal) SetAttributeErrors(get, set error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.getErr = get
	v.setErr = set
}

// SetWriteError makes Write fail with err.
func (v *VirtualTerminal) SetWriteError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writeErr = err
}
