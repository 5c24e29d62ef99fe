package spawn

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WritePIDFile writes pid on the first line followed by the JSON encoded
// request, so a later reader knows what was started.
func WritePIDFile(path string, pid int, req Request) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	data := strconv.Itoa(pid) + "\n" + string(b) + "\n"
	return os.WriteFile(path, []byte(data), 0o600)
}

// ReadPIDFile reads a file written by WritePIDFile. Files holding only a PID
// are accepted and yield a nil request, as does an unparsable request body.
func ReadPIDFile(path string) (int, *Request, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, nil, err
	}
	pidLine, rest, _ := strings.Cut(string(b), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(pidLine))
	if err != nil {
		return 0, nil, err
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return pid, nil, nil
	}
	var req Request
	if err := json.Unmarshal([]byte(rest), &req); err != nil {
		return pid, nil, nil
	}
	return pid, &req, nil
}

// RemovePIDFile removes path, ignoring errors.
func RemovePIDFile(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
