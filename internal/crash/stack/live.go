package stack

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// Live formats the stack of the calling goroutine.
//
// This is a diagnostic snapshot, not a crash trace: it is what the crash log
// store hands out when no fault was recorded. The output starts with a blank
// line and a build identity line, followed by one entry per frame:
//
//	0   main.report
//	    /src/app/report.go:42
//	1   main.main
//	    /src/app/main.go:17
//
// skip is the number of frames to omit above the caller of Live (0 starts at
// the caller).
func Live(skip int) string {
	var pcs [MaxFrames]uintptr
	// Skip runtime.Callers and Live itself.
	n := runtime.Callers(skip+2, pcs[:])

	var buf strings.Builder
	buf.WriteString("\n")
	buf.WriteString(Identity())
	buf.WriteString("\n")

	if n == 0 {
		buf.WriteString("    <no frames>\n")
		return buf.String()
	}

	frames := runtime.CallersFrames(pcs[:n])
	for i := 0; ; i++ {
		frame, more := frames.Next()
		if frame.PC == 0 && frame.Function == "" {
			break
		}

		function := frame.Function
		if function == "" {
			function = "<unknown>"
		}
		fmt.Fprintf(&buf, "%-3d %s\n    %s:%d\n", i, function, frame.File, frame.Line)

		if !more {
			break
		}
	}

	return buf.String()
}

// Identity describes the running binary as "module@version (go version)".
//
// The version is dropped when it is not a valid semantic version, which is
// the case for "(devel)" builds and test binaries.
func Identity() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown (" + runtime.Version() + ")"
	}

	mod := module.Version{Path: info.Main.Path, Version: info.Main.Version}
	if !semver.IsValid(mod.Version) {
		mod.Version = ""
	}
	if mod.Path == "" {
		mod.Path = info.Path
	}
	if mod.Path == "" {
		mod.Path = "unknown"
	}

	goVersion := info.GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}

	return mod.String() + " (" + goVersion + ")"
}
