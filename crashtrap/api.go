package crashtrap

import (
	"errors"
	"fmt"
	"os"

	"github.com/kolkov/crashtrap/internal/crash/engine"
	"github.com/kolkov/crashtrap/internal/crash/store"
)

// Init clears the crash log and installs the capture engine.
//
// Call it first thing in main, before any code that might fault:
//
//	func main() {
//		if err := crashtrap.Init(); err != nil {
//			log.Fatal(err)
//		}
//		// ... rest of program
//	}
//
// Init is safe to call multiple times (subsequent calls are no-ops). It
// fails only when the configuration is invalid. Problems with the log file,
// including an earlier trace that cannot be removed, are reported on stderr
// and the engine is installed anyway: capture then still reaches stderr.
func Init(opts ...Option) error {
	if engine.Registered() {
		return nil
	}

	c, err := newConfig(opts)
	if err != nil {
		return err
	}

	s := store.New(c.logPath)
	if err := s.Reset(); err != nil {
		fmt.Fprintf(os.Stderr, "crashtrap: %v\n", err)
	}
	if err := engine.Register(s, c.engine); err != nil && !errors.Is(err, engine.ErrRegistered) {
		return fmt.Errorf("failed to install crash engine: %w", err)
	}
	return nil
}

// Capture reports a panic on the current goroutine as a crash. It must be
// deferred directly:
//
//	defer crashtrap.Capture()
//
// If the goroutine is not panicking, Capture does nothing.
func Capture() {
	if v := recover(); v != nil {
		engine.Fault(v)
	}
}

// Guard runs fn and reports any panic or memory fault inside it as a crash.
func Guard(fn func()) {
	engine.Guard(fn)
}

// Log returns the persisted crash trace, or a live trace of the calling
// goroutine when there is none.
func Log() string {
	return currentStore().Read()
}

// Path returns the crash log location.
func Path() string {
	return currentStore().Path()
}

// Reset deletes the persisted crash trace.
func Reset() error {
	return currentStore().Reset()
}

// currentStore is the registered store, or the one Init would use.
func currentStore() *store.Store {
	if s := engine.Store(); s != nil {
		return s
	}
	c, err := newConfig(nil)
	if err != nil {
		return store.New("")
	}
	return store.New(c.logPath)
}
