// Package sigsafe holds the closed set of primitives the crash capture path
// is allowed to use.
//
// Everything here works on caller-owned, fixed-size storage:
//
//   - [Line] is a 1 KiB line buffer with append helpers for strings, signed
//     decimals, pointer-style hex and left-aligned padding.
//   - [Sink] fans raw bytes out to at most two file descriptors with direct
//     write(2) calls (Unix only).
//
// Beyond this package, the capture path calls only stack.Resolve and the
// engine's fixed mapping tables. stack.Resolve goes through
// runtime.FuncForPC, which allocates a small descriptor when the address
// falls inside an inlined call. It runs on the faulting goroutine after
// recover; faults inside the allocator itself are fatal runtime errors and
// never reach capture.
//
// Nothing in this package allocates, takes a lock, or calls into fmt, strconv
// or buffered I/O. Code on the capture path must not import anything that
// does. New helpers added here must keep that property; review them with
// `go build -gcflags=-m` and check that nothing escapes.
package sigsafe
