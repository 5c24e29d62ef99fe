//go:build darwin && cgo

package spawn

/*
#include <spawn.h>
#include <stdlib.h>

static int spawn_with_flags(pid_t *pid, const char *path, short flags,
                            char *const argv[], char *const envp[]) {
	posix_spawnattr_t attr;
	int rc = posix_spawnattr_init(&attr);
	if (rc != 0) {
		return rc;
	}
	rc = posix_spawnattr_setflags(&attr, flags);
	if (rc == 0) {
		rc = posix_spawn(pid, path, NULL, &attr, argv, envp);
	}
	posix_spawnattr_destroy(&attr);
	return rc;
}
*/
import "C"

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// The kernel interprets every bit, private ones included.
const (
	supportedFlags int16 = -1
	nativeSpawn          = true
)

func (s *Spawner) start(req Request, _ Plan) (*Child, error) {
	path := C.CString(req.Executable())
	defer C.free(unsafe.Pointer(path))
	argv := cStrings(req.Args)
	defer freeCStrings(argv)
	envp := cStrings(req.environ())
	defer freeCStrings(envp)

	var pid C.pid_t
	rc := C.spawn_with_flags(&pid, path, C.short(req.Flags), &argv[0], &envp[0])
	if rc != 0 {
		return nil, syscall.Errno(rc)
	}
	p := int(pid)
	return &Child{Pid: p, wait: func() (Status, error) { return wait4(p) }}, nil
}

// cStrings returns a NULL-terminated array of C copies of ss.
func cStrings(ss []string) []*C.char {
	out := make([]*C.char, len(ss)+1)
	for i, s := range ss {
		out[i] = C.CString(s)
	}
	return out
}

func freeCStrings(cs []*C.char) {
	for _, c := range cs {
		if c != nil {
			C.free(unsafe.Pointer(c))
		}
	}
}

func wait4(pid int) (Status, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return Status(ws), nil
	}
}
