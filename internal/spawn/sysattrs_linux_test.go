//go:build linux

package spawn

import (
	"errors"
	"syscall"
	"testing"
	"time"

	gopsproc "github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
)

func TestPlanFor_Linux(t *testing.T) {
	p := PlanFor(flags.Parse("_POSIX_SPAWN_DISABLE_ASLR|POSIX_SPAWN_OSX_TALAPP_START"))
	assert.True(t, p.DisableASLR)
	assert.Equal(t, []string{"POSIX_SPAWN_OSX_TALAPP_START"}, p.Ignored)
}

func TestPersonaFor(t *testing.T) {
	assert.Equal(t, uintptr(0), personaFor(Plan{}))
	assert.Equal(t, uintptr(addrNoRandomize), personaFor(Plan{DisableASLR: true}))
	assert.Equal(t, uintptr(addrNoRandomize|readImpliesExec), personaFor(Plan{DisableASLR: true, AllowDataExec: true}))
}

func TestSpawn_DisableASLR(t *testing.T) {
	script := `[ $(( 0x$(cat /proc/self/personality) & 0x40000 )) -ne 0 ]`
	child, err := New(nil).Spawn(Request{
		Flags: flags.DisableASLR,
		Args:  []string{"/bin/sh", "-c", script},
	})
	if errors.Is(err, syscall.EPERM) {
		t.Skip("personality not permitted here")
	}
	require.NoError(t, err)
	st, err := child.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, st.ExitCode())

	// the parent's thread personality is restored
	cur, _, errno := unix.RawSyscall(unix.SYS_PERSONALITY, personalityQuery, 0, 0)
	require.Zero(t, errno)
	assert.Zero(t, cur&addrNoRandomize)
}

func TestSpawn_StartSuspended(t *testing.T) {
	child, err := New(nil).Spawn(Request{
		Flags: flags.StartSuspended,
		Args:  []string{"/bin/sleep", "30"},
	})
	if errors.Is(err, syscall.EPERM) {
		t.Skip("ptrace not permitted here")
	}
	require.NoError(t, err)
	defer func() {
		_ = unix.Kill(child.Pid, unix.SIGKILL)
		_, _ = child.Wait()
	}()

	var state string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state, err = State(child.Pid)
		if err == nil && state == gopsproc.Stop {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, gopsproc.Stop, state)

	require.NoError(t, unix.Kill(child.Pid, unix.SIGKILL))
	st, err := child.Wait()
	require.NoError(t, err)
	assert.True(t, st.Signaled())
}
