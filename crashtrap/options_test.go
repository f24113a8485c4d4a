package crashtrap

import (
	"path/filepath"
	"testing"

	"github.com/kolkov/crashtrap/internal/crash/engine"
	"github.com/kolkov/crashtrap/internal/crash/store"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv(EnvLog, "")
	t.Setenv(EnvExit, "")

	c, err := newConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.logPath != "" {
		t.Errorf("logPath = %q, want default", c.logPath)
	}
	if c.engine != engine.DefaultOptions() {
		t.Errorf("engine options = %+v, want defaults", c.engine)
	}
}

func TestNewConfigEnvironment(t *testing.T) {
	t.Setenv(EnvLog, "/tmp/from-env.txt")
	t.Setenv(EnvExit, "status")
	t.Setenv(EnvTraceback, "single")

	c, err := newConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.logPath != "/tmp/from-env.txt" {
		t.Errorf("logPath = %q", c.logPath)
	}
	if c.engine.Exit != ExitStatus {
		t.Errorf("Exit = %v, want status", c.engine.Exit)
	}
	if c.engine.Traceback != "single" {
		t.Errorf("Traceback = %q, want single", c.engine.Traceback)
	}
}

func TestNewConfigOptionsOverrideEnvironment(t *testing.T) {
	t.Setenv(EnvLog, "/tmp/from-env.txt")
	t.Setenv(EnvExit, "status")

	c, err := newConfig([]Option{
		WithLogPath("/tmp/explicit.txt"),
		WithExitMode(ExitSignal),
		WithBanner("*** FAILED: PLUGIN CRASHED"),
		WithTraceback(""),
		WithCrashOutput(false),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := engine.Options{
		Banner:      "*** FAILED: PLUGIN CRASHED",
		Exit:        ExitSignal,
		Traceback:   "",
		CrashOutput: false,
	}
	if c.logPath != "/tmp/explicit.txt" {
		t.Errorf("logPath = %q", c.logPath)
	}
	if c.engine != want {
		t.Errorf("engine options = %+v, want %+v", c.engine, want)
	}
}

func TestNewConfigInvalidExit(t *testing.T) {
	t.Setenv(EnvExit, "abort")

	if _, err := newConfig(nil); err == nil {
		t.Fatal("newConfig accepted an unknown exit mode")
	}
}

// The test process never calls Init, so the package-level helpers work on
// the store Init would use.
func TestUnregisteredHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), store.FileName)
	t.Setenv(EnvLog, path)

	if got := Path(); got != path {
		t.Errorf("Path() = %q, want %q", got, path)
	}

	if err := store.New(path).Write("persisted trace\n"); err != nil {
		t.Fatal(err)
	}
	if got := Log(); got != "persisted trace\n" {
		t.Errorf("Log() = %q", got)
	}

	if err := Reset(); err != nil {
		t.Fatal(err)
	}
	if got := Log(); got == "persisted trace\n" || got == "" {
		t.Errorf("Log() after Reset = %q, want a live trace", got)
	}

	info := GetInfo()
	if info.Version != Version || info.Registered || info.LogPath != path || info.Build == "" {
		t.Errorf("GetInfo() = %+v", info)
	}
}
