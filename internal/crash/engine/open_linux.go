//go:build linux

package engine

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// openLog opens the crash log with a raw openat(2) on the pre-built
// NUL-terminated path, so no path conversion allocates at crash time.
// It returns -1 on failure.
func openLog(_ string, pathz []byte) int {
	if len(pathz) < 2 {
		return -1
	}
	dirfd := unix.AT_FDCWD
	fd, _, errno := unix.Syscall6(unix.SYS_OPENAT,
		uintptr(dirfd),
		uintptr(unsafe.Pointer(&pathz[0])),
		uintptr(logFlags|unix.O_LARGEFILE),
		0o644, 0, 0)
	if errno != 0 {
		return -1
	}
	return int(fd)
}
