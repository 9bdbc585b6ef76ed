// ABOUTME: CLI entry point for spaghetti with guaranteed terminal restoration
// ABOUTME: Parses flags, opens the terminal session, runs the refresh/keypress loop

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mauromedda/spaghetti/internal/editor"
	pilog "github.com/mauromedda/spaghetti/internal/log"
	"github.com/mauromedda/spaghetti/pkg/tui/terminal"
)

var version = "0.0.1"

func main() {
	args, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("spaghetti %s\n", version)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run opens the session, enables raw mode, and drives the loop. The
// deferred Close restores the terminal on every return path, panics included.
func run(args cliArgs) error {
	if args.verbose {
		pilog.SetLevel(pilog.LevelDebug)
	}

	if args.logFile != "" {
		f, err := os.OpenFile(args.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		defer pilog.SetOutput(pilog.SetOutput(f))
	}

	settings, err := args.settings()
	if err != nil {
		return fmt.Errorf("resolving settings: %w", err)
	}

	// ISIG is off in raw mode, so only signals sent from outside arrive here.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	s, err := editor.New(ctx, terminal.NewProcessTerminal(), settings)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	if err := s.EnableRawMode(); err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	defer s.Close()

	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	pilog.Debug("quit")
	return nil
}
