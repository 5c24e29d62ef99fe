package main

import (
	"fmt"
	"io"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
)

const version = "1.0.0"

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, `posixspawn -- The power of posix_spawn in your shell.
Version: %s

Usage: posixspawn [options...] [--] [args...]

Options:
  -f, --flags <flags>   Pipe-delimited list of flags (see flags section below).
  -p, --path <path>     Executable path, if different from args[0].
  -w, --wait            Wait for the child and print its exit status.
      --config <file>   TOML config file.
      --env <K=V>       Set a variable in the child environment (repeatable).
      --pid-file <file> Write the child PID to a file.
      --history <dsn>   Record spawns to sqlite://, postgres:// or clickhouse://.
      --metrics-file <file>
                        Write Prometheus metrics to a textfile.
      --log-level <lvl> Diagnostic level: debug, info, warn, error.
      --log-file <file> Write diagnostics to a rotating file.
      --log-format <f>  Diagnostic format: text or json.
  -h, --help            Show this help.

Args:
  The remaining arguments are passed to the child process.

Flags:
  The flags argument is a pipe-delimited list of constants or integers.
  A flag can be a string constant, a base-16 string, or a base-10 string.
  The flag uses the short data type, with each flag a maximum 2 bytes.
  Example argument:
    "EXAMPLE_CONSTANT|0xF0|16"
  The following string constants are supported:
`, version)
	for _, c := range flags.Table() {
		_, _ = fmt.Fprintf(w, "    0x%04x  %s\n", uint16(c.Value), c.Name)
	}
	_, _ = fmt.Fprintln(w)
}
