//go:build windows

package spawn

func (s Status) Exited() bool { return true }

func (s Status) ExitCode() int { return int(s) }

func (s Status) Signaled() bool { return false }

func (s Status) Signal() string { return "" }
