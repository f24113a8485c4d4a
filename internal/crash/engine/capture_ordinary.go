//go:build !unix

package engine

import (
	"fmt"
	"os"
	"runtime"

	"github.com/kolkov/crashtrap/internal/crash/stack"
)

// capture prints the banner and trace to stderr, persists the same text to
// the crash log, and terminates the process.
//
// Without POSIX signal semantics the handler is not restricted, so this path
// formats with fmt and writes through the crash log store.
//
//go:noinline
func capture(r *registration) {
	var pcs [stack.MaxFrames]uintptr
	// Skip runtime.Callers itself plus the handler frames.
	n := runtime.Callers(1+handlerFrames, pcs[:])

	text := r.banner + formatTrace(pcs[:n], &r.maps)

	fmt.Fprint(os.Stderr, text)
	if r.store != nil {
		if err := r.store.Write(text); err != nil {
			fmt.Fprintf(os.Stderr, "crashtrap: %v\n", err)
		}
	}

	terminate(r.opts.Exit)
}
