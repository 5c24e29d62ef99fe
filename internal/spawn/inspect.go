package spawn

import (
	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// State returns the scheduler state of pid as reported by gopsutil
// ("running", "sleep", "stop", "zombie", ...).
func State(pid int) (string, error) {
	p, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return "", err
	}
	st, err := p.Status()
	if err != nil {
		return "", err
	}
	if len(st) == 0 {
		return "", nil
	}
	return st[0], nil
}
