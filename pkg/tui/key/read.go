// ABOUTME: Read blocks until exactly one input byte arrives.
// ABOUTME: Zero-byte reads (raw-mode timeouts) and EINTR are retried, never returned.

package key

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Read returns the next byte from r. A read that yields zero bytes without
// an error, or fails with EINTR, is retried. Between retries ctx is
// checked, which bounds the wait by the terminal read timeout.
//
// Any other error, including io.EOF, is returned wrapped.
func Read(ctx context.Context, r io.Reader) (byte, error) {
	var buf [1]byte
	for {
		n, err := r.Read(buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err != nil && !errors.Is(err, syscall.EINTR) {
			return 0, fmt.Errorf("reading key: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
}
