// ABOUTME: Session owns the controlling terminal for the process: saved attributes, geometry, raw mode.
// ABOUTME: Close restores the saved attributes on every exit path and swallows its own errors.

package editor

import (
	"context"
	"fmt"

	"github.com/mauromedda/spaghetti/internal/config"
	pilog "github.com/mauromedda/spaghetti/internal/log"
	"github.com/mauromedda/spaghetti/pkg/tui/key"
	"github.com/mauromedda/spaghetti/pkg/tui/terminal"
	"github.com/mauromedda/spaghetti/pkg/tui/width"
)

// Session is the terminal session controller. Terminal attributes are
// process-wide, so a process holds at most one Session at a time.
// Session is not safe for concurrent use.
type Session struct {
	term     terminal.Terminal
	settings config.Settings
	saved    terminal.Attributes
	cols     int
	rows     int
	welcome  string
	closed   bool
}

// New captures t's current attributes, then determines the screen size.
// When the direct size query fails the cursor probe runs with raw
// attributes applied, and the saved attributes are reapplied before New
// returns.
func New(ctx context.Context, t terminal.Terminal, settings config.Settings) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	saved, err := t.Attributes()
	if err != nil {
		return nil, terminal.WrapIO("get attributes", err)
	}

	s := &Session{
		term:     t,
		settings: settings,
		saved:    saved,
		welcome:  fmt.Sprintf("%s -- version %s", width.Sanitize(settings.Name), width.Sanitize(settings.Version)),
	}

	s.cols, s.rows, err = s.querySize(ctx)
	if err != nil {
		return nil, err
	}
	pilog.Debug("session: screen %dx%d", s.cols, s.rows)
	return s, nil
}

// querySize tries the platform window size first and falls back to
// probing the cursor position.
func (s *Session) querySize(ctx context.Context) (cols, rows int, err error) {
	cols, rows, err = terminal.QueryDirect(s.term)
	if err == nil {
		return cols, rows, nil
	}
	pilog.Debug("session: %v; probing cursor position", err)

	if err := s.EnableRawMode(); err != nil {
		return 0, 0, err
	}
	defer func() {
		if rerr := s.DisableRawMode(); rerr != nil && err == nil {
			cols, rows, err = 0, 0, rerr
		}
	}()
	return terminal.ProbeCursor(ctx, s.term)
}

// Size returns the screen size captured when the session was created.
func (s *Session) Size() (cols, rows int) {
	return s.cols, s.rows
}

// Saved returns the attributes captured when the session was created.
func (s *Session) Saved() terminal.Attributes {
	return s.saved
}

// EnableRawMode applies raw attributes derived from the saved snapshot,
// discarding unread input.
func (s *Session) EnableRawMode() error {
	raw := terminal.MakeRaw(s.saved, s.settings.VTime())
	if err := s.term.SetAttributes(raw); err != nil {
		return terminal.WrapIO("enable raw mode", err)
	}
	return nil
}

// DisableRawMode reapplies the saved attributes, discarding unread input.
// It is safe to call whether or not raw mode was enabled.
func (s *Session) DisableRawMode() error {
	if err := s.term.SetAttributes(s.saved); err != nil {
		return terminal.WrapIO("disable raw mode", err)
	}
	return nil
}

// ReadKey waits for one input byte. Read timeouts and interrupted reads
// are retried; ctx is checked between retries.
func (s *Session) ReadKey(ctx context.Context) (byte, error) {
	b, err := key.Read(ctx, s.term)
	if err != nil {
		return 0, terminal.WrapIO("read key", err)
	}
	return b, nil
}

// ProcessKeypress reads one key and reports whether it was the quit
// chord, in which case the screen is refreshed one last time. Every
// other byte is ignored.
func (s *Session) ProcessKeypress(ctx context.Context) (quit bool, err error) {
	b, err := s.ReadKey(ctx)
	if err != nil {
		return false, err
	}
	pilog.Debug("session: key %s", key.FromByte(b))

	if b != s.settings.QuitChord() {
		return false, nil
	}
	if err := s.RefreshScreen(); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshScreen redraws the whole screen in a single write.
func (s *Session) RefreshScreen() error {
	if _, err := s.term.Write(s.frame()); err != nil {
		return terminal.WrapIO("refresh screen", err)
	}
	return nil
}

// Run refreshes the screen and processes keys until the quit chord
// arrives, an error occurs, or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.RefreshScreen(); err != nil {
			return err
		}
		quit, err := s.ProcessKeypress(ctx)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Close redraws and clears the screen, then restores the saved
// attributes. Errors are logged and dropped so they never mask the error
// that ended the session. Calls after the first do nothing.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if err := s.RefreshScreen(); err != nil {
		pilog.Debug("session: final refresh: %v", err)
	}
	if _, err := s.term.Write([]byte(terminal.ClearScreen + terminal.CursorHome)); err != nil {
		pilog.Debug("session: clear screen: %v", err)
	}
	if err := s.DisableRawMode(); err != nil {
		pilog.Debug("session: restore: %v", err)
	}
}
