//go:build linux

package spawn

import (
	"fmt"
	"os/exec"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
)

const (
	supportedFlags = flags.ResetIDs | flags.SetPGroup | flags.SetSigDef | flags.SetSigMask |
		flags.SetExec | flags.StartSuspended | flags.CloexecDefault |
		flags.DisableASLR | flags.AllowDataExec
	nativeSpawn = false
)

// personality(2) bits from <linux/personality.h>.
const (
	addrNoRandomize  = 0x0040000
	readImpliesExec  = 0x0400000
	personalityQuery = 0xffffffff
)

func personaFor(p Plan) uintptr {
	var bits uintptr
	if p.DisableASLR {
		bits |= addrNoRandomize
	}
	if p.AllowDataExec {
		bits |= readImpliesExec
	}
	return bits
}

// startCmd starts cmd from a locked thread when the child needs a modified
// personality or has to be held stopped. Both are inherited from, or tied
// to, the forking thread.
func startCmd(cmd *exec.Cmd, p Plan) error {
	persona := personaFor(p)
	if persona == 0 && !p.Suspend {
		return cmd.Start()
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if persona != 0 {
		restore, err := setPersonality(persona)
		if err != nil {
			return err
		}
		defer restore()
	}
	if p.Suspend {
		cmd.SysProcAttr.Ptrace = true
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	if p.Suspend {
		if err := holdStopped(cmd.Process.Pid); err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return fmt.Errorf("start suspended: %w", err)
		}
	}
	return nil
}

// holdStopped waits for the traced child to stop after execve, queues a
// SIGSTOP and detaches. The child resumes from the trace stop straight into
// a job-control stop before running any of the new image's code.
func holdStopped(pid int) error {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		break
	}
	if !ws.Stopped() {
		return fmt.Errorf("child not stopped after exec (status %#x)", uint32(ws))
	}
	if err := unix.Kill(pid, unix.SIGSTOP); err != nil {
		return err
	}
	return unix.PtraceDetach(pid)
}

// setPersonality ORs bits into the calling thread's personality and returns
// a func restoring the previous value.
func setPersonality(bits uintptr) (func(), error) {
	old, _, errno := unix.RawSyscall(unix.SYS_PERSONALITY, personalityQuery, 0, 0)
	if errno != 0 {
		return nil, fmt.Errorf("personality: %w", errno)
	}
	if _, _, errno := unix.RawSyscall(unix.SYS_PERSONALITY, old|bits, 0, 0); errno != 0 {
		return nil, fmt.Errorf("personality: %w", errno)
	}
	return func() { _, _, _ = unix.RawSyscall(unix.SYS_PERSONALITY, old, 0, 0) }, nil
}

// prepareExec runs on the locked thread about to call execve.
func prepareExec(p Plan) error {
	if persona := personaFor(p); persona != 0 {
		_, err := setPersonality(persona)
		return err
	}
	return nil
}
