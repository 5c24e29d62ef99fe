//go:build !windows

package spawn

import sysconf "github.com/tklauser/go-sysconf"

func argMax() int64 {
	n, err := sysconf.Sysconf(sysconf.SC_ARG_MAX)
	if err != nil {
		return 0
	}
	return n
}
