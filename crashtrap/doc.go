// Package crashtrap records a stack trace when a validation subject crashes
// and makes sure its supervisor sees the crash.
//
// A subject calls Init once at startup. Init clears any trace left by an
// earlier run and installs the capture engine. From then on, a fault on a
// guarded goroutine writes a banner and a stack trace to standard error and
// to the crash log, then kills the process. Unrecoverable runtime errors
// (fatal errors, panics on goroutines nobody guards) are reported by the Go
// runtime itself into the same log, and the process dies by SIGABRT.
//
// # Quick Start
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/kolkov/crashtrap/crashtrap"
//	)
//
//	func main() {
//		if err := crashtrap.Init(); err != nil {
//			log.Fatal(err)
//		}
//		crashtrap.Guard(validate)
//	}
//
// Worker goroutines are guarded the same way, or with a deferred Capture:
//
//	go func() {
//		defer crashtrap.Capture()
//		work()
//	}()
//
// Guard also turns memory faults (nil or wild pointer dereferences inside
// unsafe code) into recoverable panics for the duration of fn; a bare Capture
// only sees panics.
//
// # Reading the trace
//
// Log returns the persisted trace, or a live trace of the calling goroutine
// when nothing was persisted. A supervisor in another process reads the
// file at Path directly, or runs the subject through the crashtrap command:
//
//	$ crashtrap run ./validator plugin.so
//	$ crashtrap log
//
// # Trace format
//
//	*** FAILED: VALIDATION CRASHED
//	0   validator                           0x4a3f21 main.parseHeader + 33
//	1   validator                           0x4a40b8 main.validate + 88
//	2   libplugin.so                        0x7f3a10a1c2e0
//
//	Binary Images:
//	0x400000 validator
//	0x7f3a10a00000 libplugin.so
//
// Each line carries the frame index, the image containing the address, the
// address, and when available the function and the byte offset into it. The
// format is for humans; it is not a stable machine-readable contract.
//
// # Configuration
//
// Options passed to Init override the environment, which overrides the
// defaults:
//
//	CRASHTRAP_LOG        crash log path (default: os.TempDir()/crashtrap_crash.txt)
//	CRASHTRAP_EXIT       "signal" (default) or "status"
//	CRASHTRAP_TRACEBACK  runtime traceback level (default: crash)
package crashtrap
