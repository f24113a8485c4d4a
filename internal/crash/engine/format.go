package engine

import (
	"fmt"
	"strings"

	"github.com/kolkov/crashtrap/internal/crash/stack"
)

// formatTrace renders the frame lines and image summary for pcs using fmt.
//
// This is the ordinary-context rendering. The Unix capture path produces
// byte-identical text with writeTrace, without fmt. Line formats:
//
//	<index> <image> <address> <symbol> + <offset>   resolved with a symbol
//	<index> <image> <address>                       image only, or unresolved
//
// The index is left-aligned to 3 columns and the image name to 35; the image
// column is blank when unknown. If any image was named, a summary follows:
//
//	Binary Images:
//	<base> <image>
func formatTrace(pcs []uintptr, images stack.ImageResolver) string {
	var (
		buf strings.Builder
		reg imageRegistry
	)

	for i, pc := range pcs {
		f := stack.Resolve(pc, images)
		if f.HasSymbol {
			fmt.Fprintf(&buf, "%-3d %-35s %#x %s + %d\n", i, f.ImageName, pc, f.Symbol, f.Offset)
		} else {
			fmt.Fprintf(&buf, "%-3d %-35s %#x\n", i, f.ImageName, pc)
		}
		if f.ImageName != "" {
			reg.add(f.ImageBase, f.ImageName)
		}
	}

	if reg.n > 0 {
		buf.WriteString("\nBinary Images:")
		for _, img := range reg.list() {
			fmt.Fprintf(&buf, "\n%#x %s", img.base, img.name)
		}
		buf.WriteString("\n")
	}

	return buf.String()
}
