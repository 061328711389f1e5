package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/seqlang/seq/internal/config"
	"github.com/seqlang/seq/internal/driver"
	"github.com/seqlang/seq/internal/ffi"
)

// ffiManifestFromProject looks for a seq.yaml above sourcePath's directory
// and returns its first ffi_manifests entry, so a project doesn't need to
// repeat --ffi-manifest on every `seqc build` invocation (SPEC_FULL.md
// DOMAIN STACK: "the seqc FFI search-path ... loader"). Any discovery or
// parse failure is treated as "no project file" rather than a build error,
// since --ffi-manifest remains the authoritative override.
func ffiManifestFromProject(sourcePath string) string {
	projectPath, err := config.FindProject(filepath.Dir(sourcePath))
	if err != nil || projectPath == "" {
		return ""
	}
	proj, err := config.LoadProject(projectPath)
	if err != nil {
		return ""
	}
	manifests := proj.ResolveFFIManifests(projectPath)
	if len(manifests) == 0 {
		return ""
	}
	return manifests[0]
}

// linkFlagsFor returns the manifest's `link = "..."` library name as a
// one-element slice; the driver adds the -l prefix when it builds the
// final link command (spec §4.9). Errors are swallowed here since
// compile() in pipeline.go already
// loaded and validated the same manifest; a failure at this point would
// mean the file changed between the two reads.
func linkFlagsFor(manifestPath string) []string {
	m, err := ffi.Load(manifestPath)
	if err != nil || m.Link == "" {
		return nil
	}
	return []string{m.Link}
}

// handleBuild implements `seqc build <file> [-o <out>] [--keep-ir]
// [--ffi-manifest <file>] [--instrument] [--runtime <archive>]` (spec §6
// External Interfaces: CLI surface). Grounded on the teacher's
// handleBuild/handleCompile: os.Args is scanned by hand rather than via
// the flag package, since subcommand dispatch in pkg/cli/entry.go itself
// works by each handleX() inspecting os.Args[1] before flag parsing would
// get a chance to run.
func handleBuild() bool {
	if len(os.Args) < 3 || os.Args[1] != "build" {
		return false
	}

	sourcePath := ""
	outputPath := ""
	runtimeArchive := ""
	manifestPath := ""
	keepIR := false
	instrument := false
	verbose := false

	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "-o", "--output":
			if i+1 < len(os.Args) {
				outputPath = os.Args[i+1]
				i++
			}
		case "--runtime":
			if i+1 < len(os.Args) {
				runtimeArchive = os.Args[i+1]
				i++
			}
		case "--ffi-manifest":
			if i+1 < len(os.Args) {
				manifestPath = os.Args[i+1]
				i++
			}
		case "--keep-ir":
			keepIR = true
		case "--instrument":
			instrument = true
		case "--verbose", "-v":
			verbose = true
		default:
			if !strings.HasPrefix(os.Args[i], "-") && sourcePath == "" {
				sourcePath = os.Args[i]
			}
		}
	}

	if sourcePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: seqc build <file.seq> [-o <out>] [--keep-ir] [--ffi-manifest <file>] [--instrument]")
		os.Exit(1)
	}
	if outputPath == "" {
		outputPath = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	}
	if manifestPath == "" {
		manifestPath = ffiManifestFromProject(sourcePath)
	}

	llvmIR, err := compile(sourcePath, pipelineOptions{FFIManifest: manifestPath, Instrument: instrument})
	if err != nil {
		fatalf("%s", err)
	}

	opt := driver.Options{
		OutputPath:     outputPath,
		KeepIR:         keepIR,
		RuntimeArchive: runtimeArchive,
		Verbose:        verbose,
	}
	if manifestPath != "" {
		opt.LinkFlags = append(opt.LinkFlags, linkFlagsFor(manifestPath)...)
	}

	if err := driver.Compile(llvmIR, opt); err != nil {
		fatalf("%s", err)
	}
	fmt.Printf("seqc: wrote %s\n", outputPath)
	return true
}
