// ABOUTME: Frame composition: placeholder rows, the centred welcome line, cursor hide/show.
// ABOUTME: Every refresh repaints all rows; there is no partial update.

package editor

import (
	"bytes"
	"strings"

	"github.com/mauromedda/spaghetti/pkg/tui/terminal"
	"github.com/mauromedda/spaghetti/pkg/tui/width"
)

// filler marks rows past the end of the (not yet existing) buffer.
const filler = "~"

// frame builds one full-screen redraw.
func (s *Session) frame() []byte {
	var b bytes.Buffer
	b.Grow(s.rows * (len(filler) + len(terminal.ClearLine) + 2))

	b.WriteString(terminal.HideCursor)
	b.WriteString(terminal.CursorHome)
	s.drawRows(&b)
	b.WriteString(terminal.CursorHome)
	b.WriteString(terminal.ShowCursor)

	return b.Bytes()
}

// drawRows writes one line per screen row, each cleared to the end, with
// CRLF between rows but not after the last so the screen never scrolls.
func (s *Session) drawRows(b *bytes.Buffer) {
	for y := 0; y < s.rows; y++ {
		if !s.settings.NoWelcome && y == s.rows/3 {
			b.WriteString(welcomeLine(s.welcome, s.cols))
		} else {
			b.WriteString(filler)
		}

		b.WriteString(terminal.ClearLine)
		if y < s.rows-1 {
			b.WriteString("\r\n")
		}
	}
}

// welcomeLine centres msg in cols cells. The first padding cell keeps the
// filler glyph so the left margin stays continuous.
func welcomeLine(msg string, cols int) string {
	msg = width.Truncate(msg, cols)
	padding := (cols - width.VisibleWidth(msg)) / 2

	var b strings.Builder
	if padding > 0 {
		b.WriteString(filler)
		padding--
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(msg)
	return b.String()
}
