//go:build windows

package engine

import (
	"os"

	"golang.org/x/sys/windows"
)

// StatusCrashed is the exit status of a crashed process: STATUS_STACK_BUFFER_OVERRUN,
// the code fail-fast terminations report. Windows has no signal deaths, so
// both exit modes use it.
const StatusCrashed = 0xC0000409

// terminate ends the process without running deferred functions or exit
// hooks.
func terminate(_ ExitMode) {
	_ = windows.TerminateProcess(windows.CurrentProcess(), StatusCrashed)
	code := uint32(StatusCrashed)
	os.Exit(int(code))
}
