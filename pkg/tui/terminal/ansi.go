// ABOUTME: VT100 escape sequences used for screen painting and cursor probing.

package terminal

const (
	ClearScreen = "\x1b[2J"
	CursorHome  = "\x1b[H"
	ClearLine   = "\x1b[K"
	HideCursor  = "\x1b[?25l"
	ShowCursor  = "\x1b[?25h"

	// RequestCursorPosition asks the terminal to answer ESC [ row ; col R on input.
	RequestCursorPosition = "\x1b[6n"

	// CursorFar moves the cursor right and down as far as the screen allows.
	// The cursor stops at the edge, so its position afterwards is the screen size.
	CursorFar = "\x1b[999C\x1b[999B"
)
