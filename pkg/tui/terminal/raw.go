// ABOUTME: MakeRaw derives raw-mode attributes from a saved snapshot.
// ABOUTME: Reads return after at most vtime deciseconds, with or without input.

package terminal

import "golang.org/x/sys/unix"

// MakeRaw returns a copy of saved with the POSIX raw-mode flag set applied:
// no break signal, CR translation, parity check, 8th-bit stripping or flow
// control on input; no output post-processing; 8-bit characters; no echo,
// canonical input, extended input processing or signal keys.
//
// VMIN is 0 and VTIME is vtime, so a read returns as soon as one byte is
// available or after vtime tenths of a second with zero bytes.
func MakeRaw(saved Attributes, vtime uint8) Attributes {
	raw := saved

	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag &^= unix.CSIZE
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG

	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = vtime

	return raw
}
