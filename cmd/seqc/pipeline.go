package main

import (
	"fmt"
	"os"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/checker"
	"github.com/seqlang/seq/internal/codegen"
	"github.com/seqlang/seq/internal/ffi"
	"github.com/seqlang/seq/internal/symbols"
)

// pipelineOptions collects the knobs `seqc build` passes to compile (spec §6 CLI
// surface: "--ffi-manifest <file>", "--instrument").
type pipelineOptions struct {
	FFIManifest string
	Instrument  bool
}

// frontendProgram loads a .seq source file through the registered
// Frontend. The lexer/parser itself is out of this repository's scope
// (spec §1); seqc only defines the seam it plugs into.
func frontendProgram(path string) (*ast.Program, error) {
	if frontend == nil {
		return nil, fmt.Errorf("seqc: no frontend registered (lexer/parser is an external component; see RegisterFrontend)")
	}
	return frontend(path)
}

// typecheck runs the row-polymorphic checker over prog, returning the
// populated symbol table and per-quotation inferred effects, or the
// checker's accumulated diagnostics on failure. manifest is nil when no
// --ffi-manifest was given.
func typecheck(prog *ast.Program, manifest *ffi.Manifest) (*symbols.Table, *checker.Checker, error) {
	table := symbols.NewTable()
	table.InitPrelude()

	if manifest != nil {
		if err := manifest.Register(table); err != nil {
			return nil, nil, fmt.Errorf("registering FFI manifest: %w", err)
		}
	}

	c := checker.New(table)
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if c.Errors.HasErrors() {
		return nil, c, fmt.Errorf("type check failed:\n%s", c.Errors.Error())
	}
	return table, c, nil
}

// compile runs the full frontend -> checker -> codegen pipeline and
// returns the emitted LLVM IR module as text.
func compile(path string, opt pipelineOptions) (string, error) {
	prog, err := frontendProgram(path)
	if err != nil {
		return "", err
	}

	var manifest *ffi.Manifest
	if opt.FFIManifest != "" {
		manifest, err = ffi.Load(opt.FFIManifest)
		if err != nil {
			return "", fmt.Errorf("loading FFI manifest: %w", err)
		}
	}

	table, c, err := typecheck(prog, manifest)
	if err != nil {
		return "", err
	}

	gen := codegen.New(table, c.Typed, opt.Instrument)
	if manifest != nil {
		gen.LoadManifest(manifest)
	}

	mod, err := gen.Generate(prog)
	if err != nil {
		return "", fmt.Errorf("codegen: %w", err)
	}
	return mod.String(), nil
}

// loadManifestOrNil loads an FFI manifest when a path is given, returning
// nil (not an error) when path is empty.
func loadManifestOrNil(path string) (*ffi.Manifest, error) {
	if path == "" {
		return nil, nil
	}
	return ffi.Load(path)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "seqc: "+format+"\n", args...)
	os.Exit(1)
}
