package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlexanderOMara/posixspawn/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	f := &SpawnFlags{}
	root := buildRoot(f, stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	var ee *exitError
	switch {
	case err == nil && f.Help:
		printUsage(stdout)
		return 1
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, errUsage), errors.Is(err, config.ErrEmptyConfig):
		printUsage(stdout)
		return 1
	default:
		_, _ = fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
}

// errUsage marks command line misuse; run answers it with the usage text.
var errUsage = errors.New("usage")

// exitError carries an exit status for failures whose message has already
// been printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// buildRoot creates the single posixspawn command. Option parsing stops at
// the first positional argument so the child's own options are left alone.
// -h/--help prints usage and exits 1, like an unknown option.
func buildRoot(f *SpawnFlags, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "posixspawn [options...] [--] [args...]",
		Short:         "The power of posix_spawn in your shell",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := command{stdout: stdout, stderr: stderr}
			return c.Spawn(cmd, f, args)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetHelpFunc(func(*cobra.Command, []string) { f.Help = true })
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		_, _ = fmt.Fprintf(stderr, "posixspawn: %v\n", err)
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	fs := root.Flags()
	fs.SetInterspersed(false)
	fs.StringVarP(&f.Flags, "flags", "f", "", "spawn flags, e.g. POSIX_SPAWN_SETPGROUP|0x0100")
	fs.StringVarP(&f.Path, "path", "p", "", "executable path, when it differs from argv[0]")
	fs.BoolVarP(&f.Wait, "wait", "w", false, "wait for the child and print its exit status")
	fs.StringVar(&f.ConfigPath, "config", "", "path to TOML config file (optional)")
	fs.StringArrayVar(&f.EnvKVs, "env", nil, "extra KEY=VALUE for the child environment (repeatable)")
	fs.StringVar(&f.PIDFile, "pid-file", "", "write the child PID and request to this file")
	fs.StringVar(&f.History, "history", "", "record spawn history to a sqlite://, postgres:// or clickhouse:// DSN")
	fs.StringVar(&f.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	fs.StringVar(&f.LogLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "write diagnostics to this rotating file instead of stderr")
	fs.StringVar(&f.LogFormat, "log-format", "", "diagnostic log format (text or json)")
	return root
}
