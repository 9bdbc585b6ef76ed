// ABOUTME: VisibleWidth computes the display width of plain text with grapheme-aware segmentation
// ABOUTME: Sanitize normalises to NFC and drops control characters before text reaches the screen

package width

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// VisibleWidth returns the number of terminal cells s occupies. Wide East
// Asian characters and emoji count as two cells; combining marks as zero.
func VisibleWidth(s string) int {
	if isPlainASCII(s) {
		return len(s)
	}
	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		w += graphemeWidth(cluster)
	}
	return w
}

// Truncate returns the longest prefix of s, cut on grapheme boundaries,
// that fits in cols cells.
func Truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	if isPlainASCII(s) {
		if len(s) > cols {
			return s[:cols]
		}
		return s
	}

	used := 0
	rest := s
	state := -1
	for len(rest) > 0 {
		cluster, next, _, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		w := graphemeWidth(cluster)
		if used+w > cols {
			break
		}
		used += w
		rest = next
		state = newState
	}
	return s[:len(s)-len(rest)]
}

// Sanitize composes s to NFC and removes control characters, so the result
// cannot carry escape sequences or move the cursor.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, norm.NFC.String(s))
}

// isPlainASCII returns true if s contains only printable ASCII (0x20-0x7E).
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 || b > 0x7E {
			return false
		}
	}
	return true
}

// graphemeWidth returns the display width of a single grapheme cluster.
func graphemeWidth(cluster string) int {
	if len(cluster) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}
