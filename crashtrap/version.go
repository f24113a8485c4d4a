package crashtrap

import (
	"github.com/kolkov/crashtrap/internal/crash/engine"
	"github.com/kolkov/crashtrap/internal/crash/stack"
)

// Version is the current version of the crash capture runtime.
const Version = "0.1.0"

// Info describes the crash capture runtime in this process.
type Info struct {
	// Version is the crashtrap version string.
	Version string

	// Build identifies the running binary as "module@version (go version)".
	Build string

	// Registered reports whether Init has installed the engine.
	Registered bool

	// LogPath is where a trace would be written.
	LogPath string
}

// GetInfo returns information about the crash capture runtime.
//
// Example:
//
//	info := crashtrap.GetInfo()
//	fmt.Printf("crashtrap %s, log at %s\n", info.Version, info.LogPath)
func GetInfo() Info {
	return Info{
		Version:    Version,
		Build:      stack.Identity(),
		Registered: engine.Registered(),
		LogPath:    Path(),
	}
}
