//go:build unix && !linux

package engine

import "golang.org/x/sys/unix"

// openLog opens the crash log, returning -1 on failure.
//
// System calls go through libSystem/libc on these platforms, so there is no
// raw openat; unix.Open copies the path once into a NUL-terminated buffer.
func openLog(path string, _ []byte) int {
	if path == "" {
		return -1
	}
	fd, err := unix.Open(path, logFlags, 0o644)
	if err != nil {
		return -1
	}
	return fd
}
