// ABOUTME: Screen geometry strategies: a direct window size query and a cursor-position probe.
// ABOUTME: ParseCursorReport validates ESC [ row ; col R replies field by field.

package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mauromedda/spaghetti/pkg/tui/key"
)

// maxReportLen bounds how many bytes ProbeCursor reads while waiting for
// the terminating 'R'.
const maxReportLen = 32

// QueryDirect asks t for its window size. A zero dimension is treated as a
// failed query, since some platforms report 0x0 for unsized ptys.
func QueryDirect(t Terminal) (cols, rows int, err error) {
	cols, rows, err = t.Size()
	if err != nil {
		return 0, 0, &IOError{Op: "query window size", Err: err}
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, &IOError{Op: "query window size", Err: fmt.Errorf("zero window size %dx%d", cols, rows)}
	}
	return cols, rows, nil
}

// ProbeCursor discovers the screen size by pushing the cursor to the
// bottom-right corner and asking where it ended up. rw must already be in
// raw mode, otherwise the reply is held back by line buffering.
func ProbeCursor(ctx context.Context, rw io.ReadWriter) (cols, rows int, err error) {
	if _, err := io.WriteString(rw, CursorFar); err != nil {
		return 0, 0, &IOError{Op: "move cursor", Err: err}
	}
	if _, err := io.WriteString(rw, RequestCursorPosition); err != nil {
		return 0, 0, &IOError{Op: "request cursor position", Err: err}
	}

	report := make([]byte, 0, maxReportLen)
	for len(report) < maxReportLen {
		b, err := key.Read(ctx, rw)
		if err != nil {
			return 0, 0, &IOError{Op: "read cursor position", Err: err}
		}
		report = append(report, b)
		if b == 'R' {
			return ParseCursorReport(string(report))
		}
	}
	return 0, 0, &IOError{
		Op:  "read cursor position",
		Err: fmt.Errorf("%w: no terminator in %q", ErrMalformedReport, report),
	}
}

// ParseCursorReport parses a reply of the form ESC [ row ; col R.
// Both fields must be positive decimal numbers that fit in 16 bits.
func ParseCursorReport(report string) (cols, rows int, err error) {
	body, ok := strings.CutPrefix(report, "\x1b[")
	if !ok {
		return 0, 0, malformed(report, "missing escape prefix")
	}
	body, ok = strings.CutSuffix(body, "R")
	if !ok {
		return 0, 0, malformed(report, "missing terminator")
	}

	fields := strings.Split(body, ";")
	if len(fields) != 2 {
		return 0, 0, malformed(report, fmt.Sprintf("want 2 fields, got %d", len(fields)))
	}

	rows, err = parseCoord(fields[0])
	if err != nil {
		return 0, 0, malformed(report, "row: "+err.Error())
	}
	cols, err = parseCoord(fields[1])
	if err != nil {
		return 0, 0, malformed(report, "column: "+err.Error())
	}
	return cols, rows, nil
}

func parseCoord(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if n == 0 {
		return 0, errors.New("zero coordinate")
	}
	return int(n), nil
}

func malformed(report, reason string) error {
	return &IOError{
		Op:  "parse cursor position",
		Err: fmt.Errorf("%w %q: %s", ErrMalformedReport, report, reason),
	}
}
