// run.go implements the 'crashtrap run' command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/kolkov/crashtrap/crashtrap"
	"github.com/kolkov/crashtrap/internal/crash/store"
	"github.com/kolkov/crashtrap/internal/crash/supervise"
)

// runConfig holds the parsed 'run' command line.
type runConfig struct {
	logPath string
	keep    bool
	binary  string
	args    []string
}

// errNoBinary is returned by parseRunArgs when no subject is named.
var errNoBinary = errors.New("no subject binary specified")

// runCommand implements the 'crashtrap run' command.
//
// Flow:
//  1. Parse options and the subject command line
//  2. Run the subject with the crash log path in its environment
//  3. Forward stdin/stdout/stderr
//  4. Classify the termination and report it
//
// Example:
//
//	crashtrap run ./validator plugin.so
//	crashtrap run -log /tmp/crash.txt -keep ./validator plugin.so
func runCommand(args []string) int {
	config, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return executeSubject(ctx, config, os.Stdin, os.Stdout, os.Stderr)
}

// parseRunArgs separates the tool's options from the subject command line.
//
// Options come first; the first argument that is not an option is the
// subject binary and everything after it belongs to the subject. "--" ends
// the options explicitly.
func parseRunArgs(args []string) (*runConfig, error) {
	config := &runConfig{}

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-log" || arg == "--log" {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a path", arg)
			}
			i++
			config.logPath = args[i]
			continue
		}
		if name, v, ok := strings.Cut(arg, "="); ok && (name == "-log" || name == "--log") {
			config.logPath = v
			continue
		}
		if arg == "-keep" || arg == "--keep" {
			config.keep = true
			continue
		}
		if len(arg) > 1 && arg[0] == '-' {
			return nil, fmt.Errorf("unknown option %s", arg)
		}
		break
	}

	if i >= len(args) {
		return nil, errNoBinary
	}
	config.binary = args[i]
	config.args = args[i+1:]

	if config.logPath == "" {
		config.logPath = crashtrap.Path()
	}
	return config, nil
}

// executeSubject runs the subject and maps its outcome to the tool's exit
// status.
func executeSubject(ctx context.Context, config *runConfig, stdin io.Reader, stdout, stderr io.Writer) int {
	report, err := supervise.Run(ctx, supervise.Config{
		Path:    config.binary,
		Args:    config.args,
		LogPath: config.logPath,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error executing subject: %v\n", err)
		return exitUsage
	}

	switch report.Outcome {
	case supervise.Passed:
		if !config.keep {
			_ = store.New(report.LogPath).Reset() // Best effort cleanup
		}
		return exitOK
	case supervise.Failed:
		fmt.Fprintf(stderr, "\ncrashtrap: %s failed with exit status %d\n", config.binary, report.ExitCode)
		return exitFailed
	default:
		how := fmt.Sprintf("exit status %d", report.ExitCode)
		if report.Signal != "" {
			how = "signal " + report.Signal
		}
		fmt.Fprintf(stderr, "\ncrashtrap: %s crashed (%s)\n", config.binary, how)
		if report.Trace != "" {
			fmt.Fprintf(stderr, "crashtrap: trace saved to %s\n", report.LogPath)
		} else {
			fmt.Fprintf(stderr, "crashtrap: no trace was recorded\n")
		}
		return exitCrashed
	}
}
