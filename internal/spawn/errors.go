package spawn

import (
	"errors"
	"syscall"
)

var (
	// ErrNoExecutable is returned when neither a path nor an argv[0] is given.
	ErrNoExecutable = errors.New("no executable: set a path or pass at least one argument")
	// ErrArgTooLong is returned when argv and envp exceed the system ARG_MAX.
	ErrArgTooLong = errors.New("argument list too long")
	// ErrUnsupported is returned on platforms without a spawn implementation.
	ErrUnsupported = errors.New("process spawning is not supported on this platform")
)

// Error reports a failed spawn or wait. Err is the bare errno when one could
// be recovered, so Error() reads like strerror output. Cause keeps the
// original error when it was replaced by an errno.
type Error struct {
	Op    string
	Path  string
	Err   error
	Cause error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// errnoFor maps request validation failures to the errno posix_spawn
// reports for them.
func errnoFor(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	switch {
	case errors.As(err, &errno):
		return errno, true
	case errors.Is(err, ErrArgTooLong):
		return syscall.E2BIG, true
	case errors.Is(err, ErrNoExecutable):
		return syscall.ENOENT, true
	}
	return 0, false
}

func wrap(op, path string, err error) error {
	errno, ok := errnoFor(err)
	if !ok {
		return &Error{Op: op, Path: path, Err: err}
	}
	e := &Error{Op: op, Path: path, Err: errno}
	if error(errno) != err {
		e.Cause = err
	}
	return e
}
