// Package main implements the crashtrap CLI tool.
//
// The crashtrap tool runs a validation subject under supervision and tells
// whether it passed, failed or crashed. Subjects built with the crashtrap
// package leave a stack trace in the crash log when they fault; the tool
// prints where to find it and can show it afterwards.
//
// Usage:
//
//	crashtrap run ./validator plugin.so   # Run and classify a subject
//	crashtrap log                         # Show the last crash trace
//	crashtrap clear                       # Delete the crash trace
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/crashtrap/crashtrap"
)

// Exit statuses of the tool itself.
const (
	exitOK      = 0
	exitUsage   = 1
	exitFailed  = 2
	exitCrashed = 3
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	command := os.Args[1]

	switch command {
	case "run":
		os.Exit(runCommand(os.Args[2:]))
	case "log":
		os.Exit(logCommand(os.Args[2:]))
	case "path":
		os.Exit(pathCommand(os.Args[2:]))
	case "clear":
		os.Exit(clearCommand(os.Args[2:]))
	case "version", "--version", "-v":
		info := crashtrap.GetInfo()
		fmt.Printf("crashtrap version %s\n", info.Version)
		fmt.Printf("build: %s\n", info.Build)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(exitUsage)
	}
}

func printUsage() {
	fmt.Print(`crashtrap - crash capture for validation subjects

USAGE:
    crashtrap <command> [arguments]

COMMANDS:
    run        Run a subject and classify how it ended
    log        Print the crash trace left by the last run
    path       Print the crash log location
    clear      Delete the crash trace
    version    Show version information
    help       Show this help message

RUN OPTIONS:
    -log <path>   Crash log location (default: $CRASHTRAP_LOG or
                  <tmp>/crashtrap_crash.txt)
    -keep         Keep the crash log after a passing run
    --            End of options; everything after is the subject

EXIT STATUS:
    0    the subject passed
    1    usage error, or the subject could not be started
    2    the subject failed (non-zero exit)
    3    the subject crashed

EXAMPLES:
    # Validate a plugin
    crashtrap run ./validator --strict plugin.so

    # Keep per-subject logs apart when running several at once
    crashtrap run -log /tmp/a_crash.txt ./validator a.so

    # Show what happened
    crashtrap log

ENVIRONMENT:
    CRASHTRAP_LOG        crash log path, passed on to the subject
    CRASHTRAP_EXIT       "signal" or "status" (read by the subject)
    CRASHTRAP_TRACEBACK  runtime traceback level (read by the subject)

`)
}
