//go:build unix

package engine

import (
	"github.com/kolkov/crashtrap/internal/crash/sigsafe"
	"github.com/kolkov/crashtrap/internal/crash/stack"
)

// Column widths of a frame line, matching formatTrace.
const (
	indexWidth = 3
	imageWidth = 35
)

// writeTrace is the async-safe twin of formatTrace: same text, written line
// by line to out from fixed stack buffers.
//
// Async-safe path: only sigsafe, stack.Resolve and the fixed tables may be
// used here.
func writeTrace(out *sigsafe.Sink, pcs []uintptr, images stack.ImageResolver) {
	var (
		line sigsafe.Line
		reg  imageRegistry
	)

	for i, pc := range pcs {
		f := stack.Resolve(pc, images)

		start := line.Len()
		line.Int(int64(i))
		line.Pad(start, indexWidth)
		line.Byte(' ')

		start = line.Len()
		line.String(f.ImageName)
		line.Pad(start, imageWidth)
		line.Byte(' ')

		line.Hex(uint64(pc))
		if f.HasSymbol {
			line.Byte(' ')
			line.String(f.Symbol)
			line.String(" + ")
			line.Int(f.Offset)
		}
		line.Newline()
		out.Line(&line)

		if f.ImageName != "" {
			reg.add(f.ImageBase, f.ImageName)
		}
	}

	if reg.n == 0 {
		return
	}

	line.String("\nBinary Images:")
	out.Line(&line)
	for _, img := range reg.list() {
		line.Byte('\n')
		line.Hex(uint64(img.base))
		line.Byte(' ')
		line.String(img.name)
		out.Line(&line)
	}
	line.Newline()
	out.Line(&line)
}
