//go:build !windows && !(darwin && cgo)

package spawn

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// start emulates posix_spawn on top of os/exec. SETSIGDEF and SETSIGMASK
// need no work: the child starts with default dispositions for caught
// signals and an empty mask. CLOEXEC_DEFAULT likewise holds because only
// stdio is passed on.
func (s *Spawner) start(req Request, p Plan) (*Child, error) {
	path := req.Executable()
	if p.SetExec {
		return nil, execInPlace(path, req, p)
	}
	// #nosec G204
	cmd := &exec.Cmd{
		Path:   path,
		Args:   req.Args,
		Env:    req.Env,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	cmd.SysProcAttr = sysProcAttr(p)
	if err := startCmd(cmd, p); err != nil {
		return nil, err
	}
	return &Child{Pid: cmd.Process.Pid, wait: func() (Status, error) { return waitCmd(cmd) }}, nil
}

func sysProcAttr(p Plan) *syscall.SysProcAttr {
	attrs := &syscall.SysProcAttr{}
	if p.SetPGroup {
		attrs.Setpgid = true // pgid 0: the child leads a new group
	}
	if p.ResetIDs {
		attrs.Credential = &syscall.Credential{
			Uid:         uint32(os.Getuid()),
			Gid:         uint32(os.Getgid()),
			NoSetGroups: true,
		}
	}
	return attrs
}

func waitCmd(cmd *exec.Cmd) (Status, error) {
	err := cmd.Wait()
	if cmd.ProcessState == nil {
		return 0, err
	}
	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return 0, err
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return Status(ws), err
	}
	return Status(ws), nil
}

// execInPlace replaces the current process image, applying the attributes
// to ourselves first. It only returns on failure.
func execInPlace(path string, req Request, p Plan) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if p.SetPGroup {
		if err := unix.Setpgid(0, 0); err != nil {
			return err
		}
	}
	if p.ResetIDs {
		if err := unix.Setgid(unix.Getgid()); err != nil {
			return err
		}
		if err := unix.Setuid(unix.Getuid()); err != nil {
			return err
		}
	}
	if err := prepareExec(p); err != nil {
		return err
	}
	argv := req.Args
	if len(argv) == 0 {
		argv = []string{path}
	}
	return unix.Exec(path, argv, req.environ())
}
