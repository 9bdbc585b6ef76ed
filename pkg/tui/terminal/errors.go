// ABOUTME: IOError is the single error kind for failed terminal operations.
// ABOUTME: WrapIO tags an error with the operation without double wrapping.

package terminal

import (
	"errors"
	"fmt"
)

// ErrMalformedReport is wrapped by errors for unparseable cursor position reports.
var ErrMalformedReport = errors.New("malformed cursor position report")

// IOError reports a failed terminal operation: attribute get/set, geometry
// queries, malformed cursor reports, and reads or writes on the streams.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return "terminal " + e.Op
	}
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WrapIO returns err as an *IOError for op. A nil err stays nil and an
// error that already carries an *IOError is returned unchanged.
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, Err: err}
}
