package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/theFisher86/coolChat-sub000/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// sinkList collects repeated -sink flags.
type sinkList []string

func (s *sinkList) String() string {
	return strings.Join(*s, ",")
}

func (s *sinkList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("circuit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
coolChat circuit runner - evaluates a prompt circuit against a chat context.

Usage:
  circuit [options] [CIRCUIT_PATH]

Arguments:
  CIRCUIT_PATH
    Path to a circuit: a .json document, a .hcl file, or a directory of
    .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	circuitFlag := flagSet.String("circuit", "", "Path to the circuit file or directory.")
	cFlag := flagSet.String("c", "", "Path to the circuit file or directory (shorthand).")
	contextFlag := flagSet.String("context", "", "Path to a JSON chat-context document.")
	validateFlag := flagSet.Bool("validate", false, "Validate the circuit and exit without executing.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	var sinks sinkList
	flagSet.Var(&sinks, "sink", "Requested output as node.port. May be repeated; defaults to the circuit's output blocks.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *circuitFlag != "" {
		path = *circuitFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		slog.Debug("No circuit path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		CircuitPath:  path,
		ContextPath:  *contextFlag,
		Sinks:        sinks,
		ValidateOnly: *validateFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
