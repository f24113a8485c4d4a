// Package stack captures and resolves program counters for crash traces.
//
// Two consumers share this package:
//
//   - The crash capture engine, which collects at most MaxFrames return
//     addresses into a fixed array and resolves them one at a time with
//     Resolve. Resolve only uses runtime symbol tables and a caller-provided
//     ImageResolver, and allocates nothing except inside runtime.FuncForPC
//     for addresses in inlined calls.
//   - The crash log store, which asks for a Live trace of the current
//     goroutine when no persisted trace exists. That path runs in an ordinary
//     context and formats freely.
//
// Usage:
//
//	var pcs [stack.MaxFrames]uintptr
//	n := runtime.Callers(skip, pcs[:])
//	for i, pc := range pcs[:n] {
//	    f := stack.Resolve(pc, images)
//	    ...
//	}
package stack

import "runtime"

// MaxFrames is the maximum number of return addresses a crash trace explores.
// Deeper stacks are truncated.
const MaxFrames = 128

// ImageResolver maps a code address to the loaded image containing it.
//
// Implementations are called from the capture path and must not allocate,
// lock or block.
type ImageResolver interface {
	// ImageFor returns the load base and file path of the image containing pc.
	ImageFor(pc uintptr) (base uintptr, path string, ok bool)
}

// Frame is a single resolved stack entry.
//
// Frames are transient: the engine formats each one into a trace line and
// discards it.
type Frame struct {
	// PC is the raw return address as captured.
	PC uintptr

	// Resolved reports whether anything was found for PC: a containing image,
	// a symbol, or both.
	Resolved bool

	// ImageBase is the load address of the containing image, if known.
	ImageBase uintptr

	// ImageName is the final path component of the containing image, or ""
	// when no image path is known.
	ImageName string

	// HasSymbol reports whether Symbol, SymbolAddr and Offset are valid.
	HasSymbol bool

	// Symbol is the nearest function name.
	Symbol string

	// SymbolAddr is the entry address of Symbol.
	SymbolAddr uintptr

	// Offset is PC - SymbolAddr.
	Offset int64
}

// Resolve looks up the image and symbol containing pc.
//
// pc is a return address, so lookups use pc-1 to stay inside the calling
// function when the call is its last instruction (calls to runtime.gopanic
// usually are). The reported offset is still measured from the raw pc.
//
// Failing to resolve is routine, never an error: the returned Frame then has
// Resolved == false and only PC set.
//
// The only heap allocation on this path happens inside runtime.FuncForPC for
// inlined frames.
func Resolve(pc uintptr, images ImageResolver) Frame {
	f := Frame{PC: pc}
	if pc == 0 {
		return f
	}
	lookup := pc - 1

	if images != nil {
		if base, path, ok := images.ImageFor(lookup); ok {
			f.Resolved = true
			f.ImageBase = base
			f.ImageName = BaseName(path)
		}
	}

	if fn := runtime.FuncForPC(lookup); fn != nil {
		f.Resolved = true
		f.HasSymbol = true
		f.Symbol = fn.Name()
		f.SymbolAddr = fn.Entry()
		f.Offset = int64(pc) - int64(f.SymbolAddr)
	}

	return f
}

// BaseName returns the part of path after the final slash, as a substring of
// path. A path without a slash is returned unchanged.
func BaseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || (runtime.GOOS == "windows" && path[i] == '\\') {
			return path[i+1:]
		}
	}
	return path
}
