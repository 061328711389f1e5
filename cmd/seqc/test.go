package main

import (
	"fmt"
	"os"
)

// handleTest implements `seqc test <file> [file2 ...]` — type-checks each
// given source file and reports pass/fail per file, grounded on the
// teacher's handleTest (which iterates os.Args[2:], compiling and
// reporting per-file, rather than stopping at the first failure).
func handleTest() bool {
	if len(os.Args) < 2 || os.Args[1] != "test" {
		return false
	}
	if len(os.Args) == 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s test <file> [file2...]\n", os.Args[0])
		os.Exit(1)
	}

	failures := 0
	for _, path := range os.Args[2:] {
		prog, err := frontendProgram(path)
		if err != nil {
			fmt.Printf("FAIL %s: %s\n", path, err)
			failures++
			continue
		}
		if _, _, err := typecheck(prog, nil); err != nil {
			fmt.Printf("FAIL %s: %s\n", path, err)
			failures++
			continue
		}
		fmt.Printf("ok   %s\n", path)
	}

	if failures > 0 {
		fmt.Printf("%d file(s) failed\n", failures)
		os.Exit(1)
	}
	return true
}
