package main

import (
	"fmt"
	"os"
	"strings"
)

// handleLint implements `seqc lint <file> [--ffi-manifest <file>]` — runs
// the frontend and checker without emitting code, reporting diagnostics
// (spec §6: "seqc lint <file> type-checks without emitting code").
func handleLint() bool {
	if len(os.Args) < 3 || os.Args[1] != "lint" {
		return false
	}

	sourcePath := ""
	manifestPath := ""
	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--ffi-manifest":
			if i+1 < len(os.Args) {
				manifestPath = os.Args[i+1]
				i++
			}
		default:
			if !strings.HasPrefix(os.Args[i], "-") && sourcePath == "" {
				sourcePath = os.Args[i]
			}
		}
	}
	if sourcePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: seqc lint <file.seq> [--ffi-manifest <file>]")
		os.Exit(1)
	}

	prog, err := frontendProgram(sourcePath)
	if err != nil {
		fatalf("%s", err)
	}

	manifestOrNil, err := loadManifestOrNil(manifestPath)
	if err != nil {
		fatalf("%s", err)
	}

	if _, _, err := typecheck(prog, manifestOrNil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("seqc: %s: ok\n", sourcePath)
	return true
}
