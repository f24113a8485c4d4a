// Package supervise runs a validation subject as a child process and decides
// whether it passed, failed or crashed.
//
// A subject that uses crashtrap terminates by signal (or with the engine's
// crash status) after a fault, so the decision is made from the process
// state alone. The crash log is consulted as well: a subject whose runtime
// wrote a fatal report to the log before exiting non-zero is also a crash.
package supervise

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kolkov/crashtrap/internal/crash/engine"
	"github.com/kolkov/crashtrap/internal/crash/store"
)

// ErrNoCommand is returned by Run when Config.Path is empty.
var ErrNoCommand = errors.New("no command to run")

// Outcome is the supervisor's verdict on a finished subject.
type Outcome int

const (
	// Passed means the subject exited with status 0.
	Passed Outcome = iota

	// Failed means the subject exited normally with a non-zero status.
	Failed

	// Crashed means the subject died by signal, exited with the crash
	// status, or left a crash report behind.
	Crashed
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Crashed:
		return "crashed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Config describes the subject to run.
type Config struct {
	// Path is the executable. Required.
	Path string

	// Args are passed to the subject after Path.
	Args []string

	// Env is the subject's environment. Nil means the current environment.
	// store.LogEnv is always appended.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// LogPath is the crash log location. Empty means store.DefaultPath().
	LogPath string

	// Standard streams. Nil streams are connected to the null device.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Report is the result of a supervised run.
type Report struct {
	Outcome Outcome

	// ExitCode is the exit status, or -1 when the subject was killed by a
	// signal.
	ExitCode int

	// Signal names the terminating signal, empty if there was none.
	Signal string

	// Trace is the persisted crash trace, set only for crashed subjects that
	// left one.
	Trace string

	// LogPath is where the subject was told to write its crash log.
	LogPath string
}

// Run starts the subject, waits for it and classifies the result.
//
// An error is returned only when the subject could not be run at all or
// ctx ended first; every termination of a started subject produces a Report.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Path == "" {
		return nil, ErrNoCommand
	}

	s := store.New(cfg.LogPath)
	if err := s.Reset(); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, cfg.Path, cfg.Args...)
	env := cfg.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(env[:len(env):len(env)], store.LogEnv+"="+s.Path())
	cmd.Dir = cfg.Dir
	cmd.Stdin = cfg.Stdin
	cmd.Stdout = cfg.Stdout
	cmd.Stderr = cfg.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", cfg.Path, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("subject %s interrupted: %w", cfg.Path, err)
	}

	state := cmd.ProcessState
	report := &Report{
		Outcome:  Classify(state),
		ExitCode: state.ExitCode(),
		Signal:   signalName(state),
		LogPath:  s.Path(),
	}

	trace, found := s.Load()
	if report.Outcome == Failed && found {
		// The runtime reported a fatal error without dying by signal.
		report.Outcome = Crashed
	}
	if report.Outcome == Crashed && found {
		report.Trace = trace
	}

	return report, nil
}

// Classify decides the outcome from the process state alone.
func Classify(state *os.ProcessState) Outcome {
	if !state.Exited() {
		return Crashed
	}
	code := state.ExitCode()
	switch {
	case code == 0:
		return Passed
	case uint32(code) == uint32(engine.StatusCrashed):
		return Crashed
	default:
		return Failed
	}
}
