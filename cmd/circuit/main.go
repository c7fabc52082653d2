package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/theFisher86/coolChat-sub000/internal/app"
	"github.com/theFisher86/coolChat-sub000/internal/cli"
)

// main is the entrypoint for the circuit runner.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Conflicting block-kind registrations panic; recover to give the
	// user a clean exit message.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "A critical startup error occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	circuitApp := app.NewApp(outW, config)
	return circuitApp.Run(context.Background())
}
