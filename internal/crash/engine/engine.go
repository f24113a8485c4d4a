// Package engine is the crash capture engine: the code that runs when a
// guarded goroutine faults, writes a stack trace to standard error and to the
// crash log, and terminates the process in a way a supervisor reads as a
// crash.
//
// # Lifecycle
//
// Register is called once at startup, after the crash log has been reset. It
// stores a single process-wide registration that is never torn down. From
// then on, Fault may be called from a deferred recover on any goroutine; it
// never returns.
//
// # Capture strategies
//
// The capture routine is selected at build time:
//
//   - Unix (capture_unix.go): the async-signal-safe path. Fixed-size stack
//     buffers, raw write(2)/openat(2) through golang.org/x/sys/unix, no fmt,
//     no locks, no buffered I/O. It may only use package sigsafe, package
//     stack's Resolve, and the mapping table built at registration.
//   - Everything else (capture_ordinary.go): builds the trace with fmt and
//     writes it with the crash log store.
//
// Both emit the same text (see formatTrace and writeTrace) and both end in
// terminate, which bypasses deferred functions and exit hooks.
//
// # Frame skipping
//
// Every trace omits exactly handlerFrames frames: capture, Fault and the
// deferred function that recovered the panic. Entry points that recover must
// call Fault directly from the deferred function so this count holds. The
// runtime's panic frames (runtime.gopanic, runtime.sigpanic, ...) are kept:
// they sit between the handler and the fault site much like a signal
// trampoline does.
package engine

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/kolkov/crashtrap/internal/crash/store"
)

// DefaultBanner is the failure line printed before every trace.
const DefaultBanner = "*** FAILED: VALIDATION CRASHED"

// handlerFrames is the number of frames the capture routine and its callers
// add on top of the faulting stack: capture, Fault, and the deferred recover.
const handlerFrames = 3

// ErrRegistered is returned by Register when the engine is already installed.
var ErrRegistered = errors.New("crash engine already registered")

// ExitMode selects how a crashing process terminates.
type ExitMode int

const (
	// ExitSignal kills the process with SIGKILL. Supervisors see a signal
	// death (os.ProcessState.Exited reports false). This is the default.
	ExitSignal ExitMode = iota

	// ExitStatus exits immediately with StatusCrashed, the numeric value of
	// SIGKILL on Unix. Use it for supervisors that misreport signal deaths
	// as clean exits.
	ExitStatus
)

// String returns the configuration name of the mode.
func (m ExitMode) String() string {
	switch m {
	case ExitSignal:
		return "signal"
	case ExitStatus:
		return "status"
	default:
		return fmt.Sprintf("ExitMode(%d)", int(m))
	}
}

// ParseExitMode parses "signal" or "status".
func ParseExitMode(s string) (ExitMode, error) {
	switch s {
	case "signal":
		return ExitSignal, nil
	case "status":
		return ExitStatus, nil
	default:
		return 0, fmt.Errorf("unknown exit mode %q (want signal or status)", s)
	}
}

// Options configures the engine.
type Options struct {
	// Banner is printed on its own line before the trace.
	Banner string

	// Exit selects the termination mechanism.
	Exit ExitMode

	// Traceback is passed to debug.SetTraceback. "crash" makes the runtime
	// die by SIGABRT after a fatal error instead of exiting with status 2.
	// Empty leaves the runtime setting alone.
	Traceback string

	// CrashOutput routes the runtime's own fatal error reports (unguarded
	// panics, "fatal error: ...") into the crash log as well as stderr.
	CrashOutput bool
}

// DefaultOptions returns the options Init uses when nothing is overridden.
func DefaultOptions() Options {
	return Options{
		Banner:      DefaultBanner,
		Exit:        ExitSignal,
		Traceback:   "crash",
		CrashOutput: true,
	}
}

// registration is the process-wide engine state. It is fully built before it
// is published and never mutated afterwards, so the capture path reads it
// without synchronization beyond the atomic load.
type registration struct {
	store *store.Store
	opts  Options

	// banner is "\n" + Options.Banner + "\n".
	banner string

	// path and pathz are the crash log location, pathz NUL-terminated for
	// raw system calls.
	path  string
	pathz []byte

	maps mappingTable
}

var (
	// current is the installed registration, nil until Register.
	current atomic.Pointer[registration]

	// crashing is set by the first goroutine to enter Fault.
	crashing atomic.Bool

	// unregistered is used when Fault runs before Register: stderr only, no
	// log file, no image table.
	unregistered = registration{banner: "\n" + DefaultBanner + "\n"}
)

// Register installs the engine for the rest of the process lifetime.
//
// It records s as the crash log, loads the table of executable mappings used
// to name images in traces, and applies the runtime settings in opts. It
// must be called once, before any code that might fault; later calls return
// ErrRegistered and change nothing.
//
// Failing to prepare the crash log is not an error: capture degrades to
// stderr-only output for that part, as it would if the log could not be
// opened at crash time.
func Register(s *store.Store, opts Options) error {
	if opts.Banner == "" {
		opts.Banner = DefaultBanner
	}

	r := &registration{
		store:  s,
		opts:   opts,
		banner: "\n" + opts.Banner + "\n",
	}
	if s != nil {
		r.path = s.Path()
		r.pathz = append([]byte(r.path), 0)
	}
	if err := r.maps.load(); err != nil {
		fmt.Fprintf(os.Stderr, "crashtrap: image table unavailable: %v\n", err)
	}

	if !current.CompareAndSwap(nil, r) {
		return ErrRegistered
	}

	if opts.Traceback != "" {
		debug.SetTraceback(opts.Traceback)
	}
	if opts.CrashOutput && s != nil {
		f, err := s.OpenCrashOutput()
		if err != nil {
			fmt.Fprintf(os.Stderr, "crashtrap: runtime crash output disabled: %v\n", err)
			return nil
		}
		// SetCrashOutput duplicates the descriptor.
		if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err != nil {
			fmt.Fprintf(os.Stderr, "crashtrap: runtime crash output disabled: %v\n", err)
		}
		_ = f.Close()
	}

	return nil
}

// Registered reports whether Register has run.
func Registered() bool {
	return current.Load() != nil
}

// Store returns the registered crash log store, or nil before Register.
func Store() *store.Store {
	if r := current.Load(); r != nil {
		return r.store
	}
	return nil
}

// Fault records a crash trace for the calling goroutine and terminates the
// process. It never returns.
//
// Fault must be called directly from the deferred function that recovered
// the panic (see handlerFrames). v is the recovered value; it is not
// formatted, since formatting arbitrary values is not safe on the capture
// path.
//
// Only the first goroutine to fault writes a trace. Any other goroutine that
// faults meanwhile parks until the process dies.
//
//go:noinline
func Fault(v any) {
	_ = v
	if !crashing.CompareAndSwap(false, true) {
		select {}
	}

	r := current.Load()
	if r == nil {
		r = &unregistered
	}
	capture(r)
}

// Guard runs fn with fault capture enabled for the current goroutine.
//
// Memory faults inside fn are turned into panics (debug.SetPanicOnFault) and
// any panic escaping fn is handed to Fault. If fn returns normally, Guard
// restores the previous panic-on-fault setting and returns.
func Guard(fn func()) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		if v := recover(); v != nil {
			Fault(v)
		}
	}()
	fn()
}
