//go:build !windows

package spawn

import "syscall"

func (s Status) ws() syscall.WaitStatus { return syscall.WaitStatus(s) }

// Exited reports whether the child exited normally.
func (s Status) Exited() bool { return s.ws().Exited() }

// ExitCode is the exit code of a normally exited child, or -1.
func (s Status) ExitCode() int {
	if !s.Exited() {
		return -1
	}
	return s.ws().ExitStatus()
}

// Signaled reports whether the child was terminated by a signal.
func (s Status) Signaled() bool { return s.ws().Signaled() }

// Signal names the terminating signal, or "" when not signaled.
func (s Status) Signal() string {
	if !s.Signaled() {
		return ""
	}
	return s.ws().Signal().String()
}
