//go:build !unix && !windows

package engine

import "os"

// StatusCrashed is the exit status of a crashed process, the same status the
// Go runtime uses for fatal panics.
const StatusCrashed = 2

// terminate ends the process without running deferred functions.
func terminate(_ ExitMode) {
	os.Exit(StatusCrashed)
}
