//go:build unix

package engine

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/kolkov/crashtrap/internal/crash/sigsafe"
	"github.com/kolkov/crashtrap/internal/crash/stack"
)

// StatusCrashed is the exit status used in ExitStatus mode: the numeric value
// of SIGKILL, the signal ExitSignal mode dies by.
const StatusCrashed = int(unix.SIGKILL)

// logFlags open the crash log for a fresh trace.
const logFlags = unix.O_RDWR | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC

// capture writes the banner and trace to stderr and the crash log, then
// terminates the process.
//
// Async-safe path: fixed stack buffers and raw descriptor calls only. Every
// file operation is a single best-effort attempt; failing to open the log
// leaves stderr as the only output.
//
//go:noinline
func capture(r *registration) {
	fd := openLog(r.path, r.pathz)

	var out sigsafe.Sink
	out.Add(unix.Stderr)
	out.Add(fd)

	out.WriteString(r.banner)

	var pcs [stack.MaxFrames]uintptr
	// Skip runtime.Callers itself plus the handler frames.
	n := runtime.Callers(1+handlerFrames, pcs[:])
	writeTrace(&out, pcs[:n], &r.maps)

	if fd >= 0 {
		_ = unix.Close(fd)
	}

	terminate(r.opts.Exit)
}

// terminate ends the process without running deferred functions, finalizers
// or exit hooks.
func terminate(mode ExitMode) {
	if mode == ExitSignal {
		_ = unix.Kill(unix.Getpid(), unix.SIGKILL)
	}
	// Reached in ExitStatus mode, or if the kill did not land.
	unix.Exit(StatusCrashed)
}
