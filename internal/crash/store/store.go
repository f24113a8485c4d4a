// Package store implements the crash log store: a single file at a fixed
// location that carries a crash trace from a dying process to whoever asks
// for it afterwards.
//
// Lifecycle:
//
//  1. Reset at process start, so a trace left by an earlier run is never
//     mistaken for this run's result.
//  2. Written at most once, by the capture engine, when the process faults.
//  3. Read any number of times by the process itself or by a supervisor.
//
// The default location is deterministic, not per-process: two processes
// using the default path at the same time overwrite each other's trace. A
// supervisor running several subjects concurrently must give each one its
// own path (see New).
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kolkov/crashtrap/internal/crash/stack"
)

// FileName is the name of the crash log inside the temporary directory.
const FileName = "crashtrap_crash.txt"

// LogEnv names the environment variable a supervisor sets to give its
// subject a crash log path.
const LogEnv = "CRASHTRAP_LOG"

// Store is a handle on one crash log file.
//
// A Store holds no open descriptors and no cached content; every method goes
// to the file system. It is safe for concurrent use to the extent the file
// system is.
type Store struct {
	path string
}

// DefaultPath returns the well-known crash log location in the OS temporary
// directory.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), FileName)
}

// New returns a Store for path. An empty path selects DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the file location of the store.
func (s *Store) Path() string {
	return s.path
}

// Reset deletes any persisted trace. A missing file is not an error.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to reset crash log %s: %w", s.path, err)
	}
	return nil
}

// Write replaces the persisted trace with text.
//
// This is the ordinary-context writer used where buffered I/O is allowed. The
// Unix capture path writes the file itself with raw descriptor calls.
func (s *Store) Write(text string) error {
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write crash log %s: %w", s.path, err)
	}
	return nil
}

// Load returns the persisted trace and whether one exists.
//
// An empty file counts as no trace: registration creates the file up front so
// the Go runtime can report fatal errors into it, and until something is
// written it holds nothing worth showing.
func (s *Store) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Read returns the persisted trace if there is one. Otherwise it returns a
// live trace of the calling goroutine, so callers always get some diagnostic
// text.
func (s *Store) Read() string {
	if text, ok := s.Load(); ok {
		return text
	}
	// Skip Read itself; the trace starts at our caller.
	return stack.Live(1)
}

// OpenCrashOutput opens the log for the Go runtime's own fatal error output
// (see runtime/debug.SetCrashOutput).
//
// The file is opened in append mode so the runtime's report lands after
// anything the capture engine has written.
func (s *Store) OpenCrashOutput() (*os.File, error) {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open crash log %s: %w", s.path, err)
	}
	return f, nil
}
