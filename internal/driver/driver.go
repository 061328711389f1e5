// Package driver shells out to an external LLVM toolchain (spec §6 "File
// formats": "it emits LLVM IR to a temporary file and invokes an external
// toolchain (clang, llc) to produce the executable linked against the
// runtime archive"). Out-of-process toolchain invocation is exactly the
// shape the teacher's internal/ext.Builder uses for its own build step
// (goFmt/goModTidy/goBuild each wrap exec.Command, write CombinedOutput
// into the returned error on failure, and honor a verbose flag); this
// package mirrors that structure for clang/llc instead of the go tool.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Options configures one compile-and-link invocation (spec §6 CLI surface:
// "seqc build <file> [-o <out>] [--keep-ir] ... [--ffi-manifest <file>]").
type Options struct {
	// OutputPath is the final native executable's path.
	OutputPath string
	// KeepIR, when true, leaves the emitted .ll file next to OutputPath
	// instead of deleting it (spec §6 "--keep-ir").
	KeepIR bool
	// RuntimeArchive is the path to the prebuilt runtime library (spec §2
	// "a small library linked into every compiled program") this program
	// links against.
	RuntimeArchive string
	// LinkFlags are additional `-l<name>` flags contributed by FFI
	// manifests (spec §4.9 "Linker flag -l<link> is injected into the
	// final link command").
	LinkFlags []string
	Verbose   bool
}

// Compile writes ir (the textual LLVM IR produced by internal/codegen) to a
// temporary .ll file, lowers it to an object file with llc, and links the
// result against the runtime archive and any FFI link flags with clang,
// producing OutputPath.
func Compile(ir string, opt Options) error {
	workDir, err := os.MkdirTemp("", "seqc-build-*")
	if err != nil {
		return fmt.Errorf("driver: creating build directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	llPath := filepath.Join(workDir, "module.ll")
	if err := os.WriteFile(llPath, []byte(ir), 0o644); err != nil {
		return fmt.Errorf("driver: writing IR: %w", err)
	}

	if opt.KeepIR {
		kept := opt.OutputPath + ".ll"
		if err := os.WriteFile(kept, []byte(ir), 0o644); err != nil {
			return fmt.Errorf("driver: writing kept IR to %s: %w", kept, err)
		}
	}

	objPath := filepath.Join(workDir, "module.o")
	if err := runLLC(llPath, objPath, opt.Verbose); err != nil {
		return err
	}

	return runClangLink(objPath, opt)
}

// runLLC lowers one .ll file to a native object file.
func runLLC(llPath, objPath string, verbose bool) error {
	args := []string{"-filetype=obj", "-o", objPath, llPath}
	cmd := exec.Command("llc", args...)
	if verbose {
		fmt.Fprintf(os.Stderr, "[driver] llc %s\n", joinArgs(args))
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("driver: llc failed:\n%s\n%w", string(output), err)
	}
	return nil
}

// runClangLink links the generated object file against the runtime
// archive and any FFI-manifest-contributed -l flags.
func runClangLink(objPath string, opt Options) error {
	args := []string{objPath, "-o", opt.OutputPath}
	if opt.RuntimeArchive != "" {
		args = append(args, opt.RuntimeArchive)
	}
	for _, l := range opt.LinkFlags {
		args = append(args, "-l"+l)
	}

	cmd := exec.Command("clang", args...)
	if opt.Verbose {
		fmt.Fprintf(os.Stderr, "[driver] clang %s\n", joinArgs(args))
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("driver: link failed:\n%s\n%w", string(output), err)
	}
	return nil
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
