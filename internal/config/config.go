// ABOUTME: Editor settings: built-in defaults merged with command-line overrides
// ABOUTME: No config files or environment variables; flags are the only source

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mauromedda/spaghetti/pkg/tui/key"
	"github.com/mauromedda/spaghetti/pkg/tui/width"
)

const (
	DefaultName        = "Spaghetti editor"
	DefaultVersion     = "0.0.1"
	DefaultQuitKey     = 'q'
	DefaultReadTimeout = 100 * time.Millisecond

	// VTIME counts tenths of a second in a single byte.
	readTimeoutUnit = 100 * time.Millisecond
	maxReadTimeout  = 255 * readTimeoutUnit
)

// Settings holds the resolved editor configuration.
type Settings struct {
	Name        string        // editor name shown on the welcome row
	Version     string        // version shown on the welcome row
	QuitKey     byte          // letter that, with Control, quits
	ReadTimeout time.Duration // raw-mode read timeout (VTIME)
	NoWelcome   bool          // draw only filler rows
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Name:        DefaultName,
		Version:     DefaultVersion,
		QuitKey:     DefaultQuitKey,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Resolve merges overrides onto the defaults and validates the result.
func Resolve(overrides Settings) (Settings, error) {
	s := merge(Defaults(), overrides)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// merge returns base with every non-zero field of override applied.
func merge(base, override Settings) Settings {
	result := base

	if override.Name != "" {
		result.Name = override.Name
	}
	if override.Version != "" {
		result.Version = override.Version
	}
	if override.QuitKey != 0 {
		result.QuitKey = override.QuitKey
	}
	if override.ReadTimeout != 0 {
		result.ReadTimeout = override.ReadTimeout
	}
	if override.NoWelcome {
		result.NoWelcome = true
	}
	return result
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if width.Sanitize(s.Name) == "" {
		return errors.New("name must contain printable characters")
	}
	if s.QuitKey < 'a' || s.QuitKey > 'z' {
		return fmt.Errorf("quit key %q: must be a lowercase letter", s.QuitKey)
	}
	if s.ReadTimeout < readTimeoutUnit || s.ReadTimeout > maxReadTimeout {
		return fmt.Errorf("read timeout %v: must be between %v and %v", s.ReadTimeout, readTimeoutUnit, maxReadTimeout)
	}
	return nil
}

// VTime returns the read timeout in deciseconds, rounded to nearest and
// clamped to the 1..255 range the terminal driver accepts.
func (s Settings) VTime() uint8 {
	n := s.ReadTimeout.Round(readTimeoutUnit) / readTimeoutUnit
	switch {
	case n < 1:
		return 1
	case n > 255:
		return 255
	}
	return uint8(n)
}

// QuitChord returns the byte the terminal sends for Control plus QuitKey.
func (s Settings) QuitChord() byte {
	return key.Ctrl(s.QuitKey)
}

// ParseQuitKey accepts a single ASCII letter of either case.
func ParseQuitKey(v string) (byte, error) {
	if len(v) != 1 {
		return 0, fmt.Errorf("quit key %q: want a single letter", v)
	}
	c := v[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	if c < 'a' || c > 'z' {
		return 0, fmt.Errorf("quit key %q: want a letter a-z", v)
	}
	return c, nil
}
