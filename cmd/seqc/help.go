package main

import (
	"fmt"
	"os"
)

const usage = `seqc - Seq ahead-of-time compiler

Usage:
  seqc build <file.seq> [-o <out>] [--runtime <archive>] [--ffi-manifest <file>] [--instrument] [--keep-ir] [--verbose]
  seqc lint <file.seq> [--ffi-manifest <file>]
  seqc test <file.seq> [file2.seq ...]
  seqc -version
  seqc -help

seqc emits LLVM IR for a Seq program and invokes an external clang/llc
toolchain to link it against the runtime archive. Parsing (.seq source
to AST) is supplied by a registered frontend; this binary alone has no
embedded lexer/parser.
`

// handleHelp implements `-help`/`--help`/`help` and `-v`/`-version`, mirroring
// the teacher's handleHelp's pattern of checking os.Args directly.
func handleHelp() bool {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		return true
	}
	switch os.Args[1] {
	case "-help", "--help", "help":
		fmt.Print(usage)
		return true
	case "-v", "-version", "--version":
		fmt.Println("seqc " + version)
		return true
	}
	return false
}
