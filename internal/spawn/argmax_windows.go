//go:build windows

package spawn

func argMax() int64 { return 0 }
