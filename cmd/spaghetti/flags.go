// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --version, --verbose, --log, --quit, --timeout, --no-welcome, --name

package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/mauromedda/spaghetti/internal/config"
)

type cliArgs struct {
	version   bool
	verbose   bool
	logFile   string
	quit      string
	timeout   time.Duration
	noWelcome bool
	name      string
}

// parseFlags parses argv (without the program name). Usage text goes to
// stderr; flag.ErrHelp is returned for -h.
func parseFlags(argv []string) (cliArgs, error) {
	return parseFlagsTo(argv, nil)
}

func parseFlagsTo(argv []string, usage io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("spaghetti", flag.ContinueOnError)
	if usage != nil {
		fs.SetOutput(usage)
	}
	fs.BoolVar(&args.version, "version", false, "Show version and exit")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.StringVar(&args.logFile, "log", "", "Append log output to this file instead of stderr")
	fs.StringVar(&args.quit, "quit", string(rune(config.DefaultQuitKey)), "Letter that quits when pressed with Ctrl")
	fs.DurationVar(&args.timeout, "timeout", config.DefaultReadTimeout, "Raw-mode read timeout (100ms steps, max 25.5s)")
	fs.BoolVar(&args.noWelcome, "no-welcome", false, "Draw filler rows only")
	fs.StringVar(&args.name, "name", config.DefaultName, "Editor name on the welcome row")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	if fs.NArg() > 0 {
		return cliArgs{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return args, nil
}

// settings resolves the flags into validated editor settings.
func (a cliArgs) settings() (config.Settings, error) {
	quit, err := config.ParseQuitKey(a.quit)
	if err != nil {
		return config.Settings{}, err
	}
	return config.Resolve(config.Settings{
		Name:        a.name,
		Version:     version,
		QuitKey:     quit,
		ReadTimeout: a.timeout,
		NoWelcome:   a.noWelcome,
	})
}
