// ABOUTME: Classifies single raw-mode input bytes as printable runes, control chords, or named keys.
// ABOUTME: Ctrl maps a letter to the byte the terminal sends for Control plus that letter.

package key

import "fmt"

// Ctrl returns the byte a terminal sends when c is pressed with Control.
// The terminal clears the top three bits, so Ctrl('q') and Ctrl('Q') are 0x11.
func Ctrl(c byte) byte {
	return c & 0x1f
}

// Key is the classification of one input byte.
type Key struct {
	Type KeyType
	Rune rune // printable character, or the letter of a control chord
	Ctrl bool
}

// KeyType enumerates the kinds of single-byte input.
type KeyType int

const (
	KeyRune      KeyType = iota // Printable ASCII
	KeyEnter                    // Carriage return (0x0D)
	KeyTab                      // Tab (0x09)
	KeyBackspace                // DEL (0x7F)
	KeyEscape                   // ESC (0x1B)
	KeyCtrl                     // Control chord with a letter or symbol
	KeyUnknown                  // Anything else, e.g. a UTF-8 continuation byte
)

// FromByte classifies b. Enter, tab and escape take priority over their
// control-chord aliases (Ctrl+M, Ctrl+I, Ctrl+[).
func FromByte(b byte) Key {
	switch {
	case b == 0x0d:
		return Key{Type: KeyEnter}
	case b == 0x09:
		return Key{Type: KeyTab}
	case b == 0x7f:
		return Key{Type: KeyBackspace}
	case b == 0x1b:
		return Key{Type: KeyEscape}
	case b >= 0x20 && b <= 0x7e:
		return Key{Type: KeyRune, Rune: rune(b)}
	case b < 0x20:
		// 0x00 is Ctrl+@, 0x01..0x1a are Ctrl+A..Ctrl+Z, then [ \ ] ^ _.
		return Key{Type: KeyCtrl, Rune: rune('@' + b), Ctrl: true}
	}
	return Key{Type: KeyUnknown, Rune: rune(b)}
}

var keyTypeNames = map[KeyType]string{
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyEscape:    "Escape",
}

// String returns a human-readable label for debug logs.
func (k Key) String() string {
	switch k.Type {
	case KeyRune:
		return string(k.Rune)
	case KeyCtrl:
		return "Ctrl+" + string(k.Rune)
	case KeyUnknown:
		return fmt.Sprintf("0x%02x", k.Rune)
	}
	if name, ok := keyTypeNames[k.Type]; ok {
		return name
	}
	return "Unknown"
}
