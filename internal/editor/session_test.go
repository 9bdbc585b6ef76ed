// ABOUTME: Tests for Session lifecycle against VirtualTerminal: capture, raw mode, keys, teardown.
// ABOUTME: Checks restore-on-exit, quit chord handling, and error propagation as IOError.

package editor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mauromedda/spaghetti/internal/config"
	"github.com/mauromedda/spaghetti/pkg/tui/terminal"
	"golang.org/x/sys/unix"
)

func newTestSession(t *testing.T, vt *terminal.VirtualTerminal, settings config.Settings) *Session {
	t.Helper()

	s, err := New(context.Background(), vt, settings)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return s
}

func assertIOError(t *testing.T, err error) {
	t.Helper()

	var ioErr *terminal.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want *terminal.IOError", err)
	}
}

func TestNew_CapturesBeforeMutating(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(80, 24)
	before, _ := vt.Attributes()

	s := newTestSession(t, vt, config.Defaults())

	if s.Saved() != before {
		t.Error("Saved() differs from the attributes present at creation")
	}
	if n := len(vt.Applied()); n != 0 {
		t.Errorf("New applied %d attribute sets, want 0", n)
	}
	if cols, rows := s.Size(); cols != 80 || rows != 24 {
		t.Errorf("Size() = (%d, %d), want (80, 24)", cols, rows)
	}
	if out := vt.Output(); out != "" {
		t.Errorf("New wrote %q with a working size query", out)
	}
}

func TestNew_FallsBackToCursorProbe(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(0, 0)
	vt.SetSizeError(errors.New("inappropriate ioctl for device"))
	vt.Feed(terminal.Timeout(), terminal.Bytes("\x1b[24;80R"))

	s := newTestSession(t, vt, config.Defaults())

	if cols, rows := s.Size(); cols != 80 || rows != 24 {
		t.Errorf("Size() = (%d, %d), want (80, 24)", cols, rows)
	}
	if got, want := vt.Output(), terminal.CursorFar+terminal.RequestCursorPosition; got != want {
		t.Errorf("probe wrote %q, want %q", got, want)
	}

	applied := vt.Applied()
	if len(applied) != 2 {
		t.Fatalf("applied %d attribute sets, want raw then saved", len(applied))
	}
	if applied[0].Lflag&unix.ICANON != 0 {
		t.Error("probe ran without raw mode")
	}
	if applied[1] != s.Saved() {
		t.Error("saved attributes not reapplied after the probe")
	}
}

func TestNew_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(vt *terminal.VirtualTerminal)
	}{
		{
			name: "attribute query fails",
			setup: func(vt *terminal.VirtualTerminal) {
				vt.SetAttributeErrors(errors.New("not a tty"), nil)
			},
		},
		{
			name: "malformed probe reply",
			setup: func(vt *terminal.VirtualTerminal) {
				vt.SetSizeError(errors.New("no size"))
				vt.Feed(terminal.Bytes("\x1b[24R"))
			},
		},
		{
			name: "probe reply never terminated",
			setup: func(vt *terminal.VirtualTerminal) {
				vt.SetSizeError(errors.New("no size"))
				vt.Feed(terminal.Bytes("\x1b[24;80"))
			},
		},
		{
			name: "raw mode for probe fails",
			setup: func(vt *terminal.VirtualTerminal) {
				vt.SetSizeError(errors.New("no size"))
				vt.SetAttributeErrors(nil, errors.New("eperm"))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := terminal.NewVirtualTerminal(0, 0)
			tt.setup(vt)

			s, err := New(context.Background(), vt, config.Defaults())
			if s != nil {
				t.Error("New() returned a session alongside an error")
			}
			assertIOError(t, err)
		})
	}
}

func TestNew_ProbeFailureStillRestores(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(0, 0)
	vt.SetSizeError(errors.New("no size"))
	vt.Feed(terminal.Bytes("24;80R"))
	saved, _ := vt.Attributes()

	if _, err := New(context.Background(), vt, config.Defaults()); err == nil {
		t.Fatal("New() succeeded with a malformed reply")
	}

	applied := vt.Applied()
	if len(applied) == 0 || applied[len(applied)-1] != saved {
		t.Error("saved attributes not reapplied after a failed probe")
	}
}

func TestNew_InvalidSettings(t *testing.T) {
	t.Parallel()
	settings := config.Defaults()
	settings.QuitKey = '!'

	if _, err := New(context.Background(), terminal.NewVirtualTerminal(80, 24), settings); err == nil {
		t.Fatal("New() accepted an invalid quit key")
	}
}

func TestRawMode_RoundTrip(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(80, 24)
	s := newTestSession(t, vt, config.Defaults())

	if err := s.EnableRawMode(); err != nil {
		t.Fatalf("EnableRawMode() unexpected error: %v", err)
	}
	raw, _ := vt.Attributes()
	if raw.Lflag&(unix.ECHO|unix.ICANON|unix.ISIG|unix.IEXTEN) != 0 {
		t.Error("local flags not cleared in raw mode")
	}
	if raw.Cc[unix.VMIN] != 0 || raw.Cc[unix.VTIME] != 1 {
		t.Errorf("VMIN/VTIME = %d/%d, want 0/1", raw.Cc[unix.VMIN], raw.Cc[unix.VTIME])
	}

	if err := s.DisableRawMode(); err != nil {
		t.Fatalf("DisableRawMode() unexpected error: %v", err)
	}
	if restored, _ := vt.Attributes(); restored != s.Saved() {
		t.Error("attributes after DisableRawMode differ from the captured snapshot")
	}
}

func TestRawMode_UsesConfiguredTimeout(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(80, 24)
	settings := config.Defaults()
	settings.ReadTimeout = settings.ReadTimeout * 5
	s := newTestSession(t, vt, settings)

	if err := s.EnableRawMode(); err != nil {
		t.Fatal(err)
	}
	if raw, _ := vt.Attributes(); raw.Cc[unix.VTIME] != 5 {
		t.Errorf("VTIME = %d, want 5", raw.Cc[unix.VTIME])
	}
}

func TestDisableRawMode_WithoutEnable(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(80, 24)
	s := newTestSession(t, vt, config.Defaults())

	if err := s.DisableRawMode(); err != nil {
		t.Fatalf("DisableRawMode() unexpected error: %v", err)
	}
	if cur, _ := vt.Attributes(); cur != s.Saved() {
		t.Error("DisableRawMode without EnableRawMode changed the attributes")
	}
}

func TestRawMode_ApplyFailure(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(80, 24)
	s := newTestSession(t, vt, config.Defaults())
	vt.SetAttributeErrors(nil, errors.New("eio"))

	assertIOError(t, s.EnableRawMode())
	assertIOError(t, s.DisableRawMode())
}

func TestProcessKeypress_QuitOnlyOnCtrlQ(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	ctx := context.Background()

	for b := 0; b <= 0xff; b++ {
		vt.Reset()
		vt.Feed(terminal.Timeout(), terminal.ReadStep{Data: []byte{byte(b)}})

		quit, err := s.ProcessKeypress(ctx)
		if err != nil {
			t.Fatalf("ProcessKeypress(0x%02x) unexpected error: %v", b, err)
		}
		if want := b == 0x11; quit != want {
			t.Errorf("ProcessKeypress(0x%02x) = %v, want %v", b, quit, want)
		}
		if refreshed := vt.Output() != ""; refreshed != quit {
			t.Errorf("ProcessKeypress(0x%02x) refreshed = %v, want %v", b, refreshed, quit)
		}
	}
}

func TestProcessKeypress_CustomQuitKey(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	settings := config.Defaults()
	settings.QuitKey = 'x'
	s := newTestSession(t, vt, settings)

	vt.Feed(terminal.ReadStep{Data: []byte{0x11, 0x18}})

	if quit, _ := s.ProcessKeypress(context.Background()); quit {
		t.Error("Ctrl+Q quit with the quit key set to x")
	}
	if quit, _ := s.ProcessKeypress(context.Background()); !quit {
		t.Error("Ctrl+X did not quit with the quit key set to x")
	}
}

func TestProcessKeypress_ReadError(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	vt.Feed(terminal.Fail(errors.New("eio")))

	quit, err := s.ProcessKeypress(context.Background())
	if quit {
		t.Error("ProcessKeypress() reported quit on a read error")
	}
	assertIOError(t, err)
}

func TestProcessKeypress_RefreshError(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	vt.Feed(terminal.ReadStep{Data: []byte{0x11}})
	vt.SetWriteError(errors.New("broken pipe"))

	_, err := s.ProcessKeypress(context.Background())
	assertIOError(t, err)
}

func TestRun_QuitsAfterCtrlQ(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	vt.Feed(terminal.Bytes("a"), terminal.Timeout(), terminal.Timeout(), terminal.ReadStep{Data: []byte{0x11}})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	// Two loop refreshes plus the one triggered by the quit chord.
	if n := strings.Count(vt.Output(), terminal.HideCursor); n != 3 {
		t.Errorf("Run() drew %d frames, want 3", n)
	}
}

func TestRun_PropagatesReadError(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	boom := errors.New("boom")
	vt.Feed(terminal.Bytes("zz"), terminal.Fail(boom))

	err := s.Run(context.Background())
	assertIOError(t, err)
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want wrapping %v", err, boom)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if vt.Output() != "" {
		t.Error("Run() drew a frame after cancellation")
	}
}

func TestClose_RefreshesClearsAndRestores(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	if err := s.EnableRawMode(); err != nil {
		t.Fatal(err)
	}

	s.Close()

	out := vt.Output()
	if got, want := out, string(s.frame())+terminal.ClearScreen+terminal.CursorHome; got != want {
		t.Errorf("Close() wrote %q, want %q", got, want)
	}
	if cur, _ := vt.Attributes(); cur != s.Saved() {
		t.Error("Close() did not restore the saved attributes")
	}

	s.Close()
	if vt.Output() != out || len(vt.Applied()) != 2 {
		t.Error("second Close() touched the terminal")
	}
}

func TestClose_SwallowsErrorsAndStillRestores(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(10, 3)
	s := newTestSession(t, vt, config.Defaults())
	if err := s.EnableRawMode(); err != nil {
		t.Fatal(err)
	}
	vt.SetWriteError(errors.New("broken pipe"))

	s.Close()

	if cur, _ := vt.Attributes(); cur != s.Saved() {
		t.Error("Close() skipped the restore after a write failure")
	}
}
