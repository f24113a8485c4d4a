// log.go implements the 'crashtrap log', 'path' and 'clear' commands.
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/crashtrap/crashtrap"
	"github.com/kolkov/crashtrap/internal/crash/store"
)

// parseLogPath reads the optional "-log <path>" argument shared by the log
// file commands.
func parseLogPath(args []string) (string, error) {
	switch {
	case len(args) == 0:
		return crashtrap.Path(), nil
	case len(args) == 2 && (args[0] == "-log" || args[0] == "--log") && args[1] != "":
		return args[1], nil
	default:
		return "", fmt.Errorf("unexpected arguments %q (want [-log path])", args)
	}
}

// logCommand prints the persisted crash trace. Unlike crashtrap.Log it never
// falls back to a live trace: the tool's own stack is of no interest.
func logCommand(args []string) int {
	path, err := parseLogPath(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	text, ok := store.New(path).Load()
	if !ok {
		fmt.Fprintf(os.Stderr, "No crash trace at %s\n", path)
		return exitUsage
	}
	fmt.Print(text)
	return exitOK
}

func pathCommand(args []string) int {
	path, err := parseLogPath(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	fmt.Println(path)
	return exitOK
}

func clearCommand(args []string) int {
	path, err := parseLogPath(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	if err := store.New(path).Reset(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	return exitOK
}
