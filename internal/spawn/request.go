package spawn

import (
	"fmt"
	"os"
)

// Request describes one child process to create.
type Request struct {
	Flags int16    `json:"flags"`
	Path  string   `json:"path,omitempty"` // executable; defaults to Args[0]
	Args  []string `json:"args"`           // argv passed to the child verbatim
	Env   []string `json:"-"`              // nil inherits the current environment
}

// Executable returns the file that will be executed. No PATH search is done.
func (r Request) Executable() string {
	if r.Path != "" {
		return r.Path
	}
	if len(r.Args) > 0 {
		return r.Args[0]
	}
	return ""
}

// FlagsHex formats the mask the way the usage listing does.
func (r Request) FlagsHex() string {
	return fmt.Sprintf("0x%04x", uint16(r.Flags))
}

func (r Request) environ() []string {
	if r.Env != nil {
		return r.Env
	}
	return os.Environ()
}

// Validate checks that the request names an executable and that argv plus
// envp fit in the system's ARG_MAX, when that limit is known.
func (r Request) Validate() error {
	if r.Executable() == "" {
		return ErrNoExecutable
	}
	limit := argMax()
	if limit <= 0 {
		return nil
	}
	if n := argSize(r.Args) + argSize(r.environ()); n > limit {
		return fmt.Errorf("%w: %d bytes exceeds ARG_MAX %d", ErrArgTooLong, n, limit)
	}
	return nil
}

// argSize counts each string with its terminator plus its pointer slot.
func argSize(ss []string) int64 {
	var n int64
	for _, s := range ss {
		n += int64(len(s)) + 1 + 8
	}
	return n + 8
}
