//go:build !windows

package spawn

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
)

func TestSpawn_WaitExitCode(t *testing.T) {
	child, err := New(nil).Spawn(Request{Args: []string{"/bin/sh", "-c", "exit 3"}})
	require.NoError(t, err)
	require.Greater(t, child.Pid, 0)

	st, err := child.Wait()
	require.NoError(t, err)
	assert.True(t, st.Exited())
	assert.Equal(t, 3, st.ExitCode())
	assert.Equal(t, Status(3<<8), st)

	// second Wait returns the cached result
	st2, err := child.Wait()
	require.NoError(t, err)
	assert.Equal(t, st, st2)
}

func TestSpawn_PathSeparateFromArgv0(t *testing.T) {
	child, err := New(nil).Spawn(Request{Path: "/bin/sh", Args: []string{"not-a-real-name", "-c", "exit 0"}})
	require.NoError(t, err)
	st, err := child.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, st.ExitCode())
}

func TestSpawn_Signaled(t *testing.T) {
	child, err := New(nil).Spawn(Request{Args: []string{"/bin/sh", "-c", "kill -TERM $$"}})
	require.NoError(t, err)
	st, err := child.Wait()
	require.NoError(t, err)
	assert.True(t, st.Signaled())
	assert.Equal(t, -1, st.ExitCode())
	assert.Equal(t, syscall.SIGTERM.String(), st.Signal())
}

func TestSpawn_MissingExecutable(t *testing.T) {
	_, err := New(nil).Spawn(Request{Args: []string{"/definitely/not/here"}})
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "posix_spawn", se.Op)
	assert.Equal(t, "/definitely/not/here", se.Path)
	assert.ErrorIs(t, err, syscall.ENOENT)
	assert.Equal(t, "posix_spawn: "+syscall.ENOENT.Error(), err.Error())
}

func TestSpawn_NoPathSearch(t *testing.T) {
	_, err := New(nil).Spawn(Request{Args: []string{"sh-not-on-cwd-" + time.Now().Format("150405")}})
	assert.ErrorIs(t, err, syscall.ENOENT)
}

func TestSpawn_SetPGroup(t *testing.T) {
	child, err := New(nil).Spawn(Request{
		Flags: flags.Parse("POSIX_SPAWN_SETPGROUP"),
		Args:  []string{"/bin/sleep", "5"},
	})
	require.NoError(t, err)
	defer func() {
		_ = unix.Kill(child.Pid, unix.SIGKILL)
		_, _ = child.Wait()
	}()
	pgid, err := unix.Getpgid(child.Pid)
	require.NoError(t, err)
	assert.Equal(t, child.Pid, pgid)
	assert.NotEqual(t, unix.Getpgrp(), pgid)
}

func TestSpawn_ResetIDs(t *testing.T) {
	child, err := New(nil).Spawn(Request{
		Flags: flags.ResetIDs,
		Args:  []string{"/bin/sh", "-c", "exit 0"},
	})
	require.NoError(t, err)
	st, err := child.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, st.ExitCode())
}

func TestSpawn_EnvOverride(t *testing.T) {
	child, err := New(nil).Spawn(Request{
		Args: []string{"/bin/sh", "-c", `test "$POSIXSPAWN_TEST" = yes`},
		Env:  []string{"POSIXSPAWN_TEST=yes"},
	})
	require.NoError(t, err)
	st, err := child.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, st.ExitCode())
}
