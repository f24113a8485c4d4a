package supervise

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kolkov/crashtrap/internal/crash/engine"
	"github.com/kolkov/crashtrap/internal/crash/store"
)

// subjectEnv turns the test binary into a subject for Run.
const subjectEnv = "CRASHTRAP_SUPERVISE_SUBJECT"

func TestMain(m *testing.M) {
	if mode := os.Getenv(subjectEnv); mode != "" {
		os.Exit(subject(mode))
	}
	os.Exit(m.Run())
}

type target struct{ n int }

var missing *target

// subject behaves according to mode and returns an exit status for modes
// that exit normally.
func subject(mode string) int {
	switch mode {
	case "pass":
		fmt.Println("subject ok")
		return 0
	case "fail":
		return 5
	case "crash":
		s := store.New(os.Getenv(store.LogEnv))
		if err := s.Reset(); err != nil {
			return 20
		}
		if err := engine.Register(s, engine.DefaultOptions()); err != nil {
			return 21
		}
		engine.Guard(func() { missing.n = 1 })
		return 22
	case "status":
		return engine.StatusCrashed
	case "report":
		// A runtime report without a signal death, as with GOTRACEBACK=single.
		_ = os.WriteFile(os.Getenv(store.LogEnv), []byte("fatal error: out of memory\n"), 0o644)
		return 2
	default:
		return 30
	}
}

func runSubject(t *testing.T, mode string) *Report {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Skipf("os.Executable: %v", err)
	}
	report, err := Run(context.Background(), Config{
		Path:    exe,
		Args:    []string{"-test.run=^$"},
		Env:     append(os.Environ(), subjectEnv+"="+mode),
		LogPath: filepath.Join(t.TempDir(), store.FileName),
	})
	if err != nil {
		t.Fatalf("Run(%s): %v", mode, err)
	}
	return report
}

func TestRunOutcomes(t *testing.T) {
	tests := []struct {
		mode      string
		want      Outcome
		wantCode  int
		wantTrace bool
	}{
		{"pass", Passed, 0, false},
		{"fail", Failed, 5, false},
		{"status", Crashed, engine.StatusCrashed, false},
		{"report", Crashed, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			report := runSubject(t, tt.mode)
			if report.Outcome != tt.want {
				t.Errorf("Outcome = %v, want %v", report.Outcome, tt.want)
			}
			if report.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", report.ExitCode, tt.wantCode)
			}
			if (report.Trace != "") != tt.wantTrace {
				t.Errorf("Trace = %q", report.Trace)
			}
			if report.Signal != "" {
				t.Errorf("Signal = %q for a normal exit", report.Signal)
			}
		})
	}
}

func TestRunPassesLogPath(t *testing.T) {
	report := runSubject(t, "report")

	if report.LogPath == "" {
		t.Fatal("report has no log path")
	}
	data, err := os.ReadFile(report.LogPath)
	if err != nil {
		t.Fatalf("subject did not write to the supervised log: %v", err)
	}
	if string(data) != report.Trace {
		t.Errorf("Trace = %q, file = %q", report.Trace, data)
	}
}

func TestRunResetsStaleLog(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Skipf("os.Executable: %v", err)
	}
	path := filepath.Join(t.TempDir(), store.FileName)
	if err := os.WriteFile(path, []byte("stale trace\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Run(context.Background(), Config{
		Path:    exe,
		Args:    []string{"-test.run=^$"},
		Env:     append(os.Environ(), subjectEnv+"=fail"),
		LogPath: path,
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Outcome != Failed {
		t.Errorf("stale log turned a failure into %v", report.Outcome)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), Config{}); !errors.Is(err, ErrNoCommand) {
		t.Errorf("Run with no path = %v, want ErrNoCommand", err)
	}

	absent := filepath.Join(t.TempDir(), "no-such-subject")
	if _, err := Run(context.Background(), Config{Path: absent}); err == nil {
		t.Error("Run of a missing executable succeeded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exe, _ := os.Executable()
	if _, err := Run(ctx, Config{Path: exe, Env: []string{subjectEnv + "=pass"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Run with cancelled context = %v, want context.Canceled", err)
	}
}

func TestOutcomeString(t *testing.T) {
	tests := map[Outcome]string{
		Passed:     "passed",
		Failed:     "failed",
		Crashed:    "crashed",
		Outcome(9): "Outcome(9)",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}
