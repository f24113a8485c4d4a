package crashtrap

import (
	"fmt"
	"os"

	"github.com/kolkov/crashtrap/internal/crash/engine"
	"github.com/kolkov/crashtrap/internal/crash/store"
)

// Environment variables read by Init.
const (
	EnvLog       = store.LogEnv
	EnvExit      = "CRASHTRAP_EXIT"
	EnvTraceback = "CRASHTRAP_TRACEBACK"
)

// ExitMode selects how a crashing process terminates.
type ExitMode = engine.ExitMode

const (
	// ExitSignal kills the process with SIGKILL (the default).
	ExitSignal = engine.ExitSignal

	// ExitStatus exits with the crash status instead, for supervisors that
	// cannot observe signal deaths.
	ExitStatus = engine.ExitStatus
)

// Option configures Init.
type Option func(*config)

type config struct {
	logPath string
	engine  engine.Options
}

// WithLogPath sets the crash log location.
func WithLogPath(path string) Option {
	return func(c *config) {
		c.logPath = path
	}
}

// WithBanner replaces the failure line printed before the trace.
func WithBanner(banner string) Option {
	return func(c *config) {
		c.engine.Banner = banner
	}
}

// WithExitMode selects the termination mechanism.
func WithExitMode(mode ExitMode) Option {
	return func(c *config) {
		c.engine.Exit = mode
	}
}

// WithTraceback sets the runtime traceback level applied by Init (see
// runtime/debug.SetTraceback). An empty level leaves the runtime alone.
func WithTraceback(level string) Option {
	return func(c *config) {
		c.engine.Traceback = level
	}
}

// WithCrashOutput controls whether the runtime's own fatal error reports are
// copied into the crash log.
func WithCrashOutput(enabled bool) Option {
	return func(c *config) {
		c.engine.CrashOutput = enabled
	}
}

// newConfig layers defaults, the environment and opts, in that order.
func newConfig(opts []Option) (*config, error) {
	c := &config{engine: engine.DefaultOptions()}

	if v := os.Getenv(EnvLog); v != "" {
		c.logPath = v
	}
	if v := os.Getenv(EnvExit); v != "" {
		mode, err := engine.ParseExitMode(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvExit, err)
		}
		c.engine.Exit = mode
	}
	if v, ok := os.LookupEnv(EnvTraceback); ok {
		c.engine.Traceback = v
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
