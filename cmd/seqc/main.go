// Command seqc compiles Seq programs ahead-of-time to native executables
// (spec §6 External Interfaces). It wires together the frontend (a
// registered parser, external to this module per spec §1), internal/checker,
// internal/codegen, and internal/driver, following the teacher's
// pkg/cli.Run()/handleX() bool subcommand-dispatch shape.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

// Run dispatches to the first matching subcommand handler, mirroring the
// teacher's pkg/cli.Run(): each handleX() inspects os.Args itself and
// returns false when it doesn't recognize the invocation, letting Run
// fall through to the next candidate.
func Run() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "seqc: internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if handleHelp() {
		return
	}
	if handleTest() {
		return
	}
	if handleLint() {
		return
	}
	if handleBuild() {
		return
	}

	fmt.Fprintf(os.Stderr, "seqc: unrecognized command %q\n\n%s", os.Args[1], usage)
	os.Exit(1)
}

func main() {
	Run()
}
