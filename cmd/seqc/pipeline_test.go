package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seqlang/seq/internal/ast"
)

func TestLoadManifestOrNil_EmptyPath(t *testing.T) {
	m, err := loadManifestOrNil("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil manifest for empty path, got %+v", m)
	}
}

func TestLoadManifestOrNil_MissingFile(t *testing.T) {
	if _, err := loadManifestOrNil("/no/such/manifest.toml"); err == nil {
		t.Fatal("expected an error for a missing manifest file")
	}
}

func TestFrontendProgram_NoFrontendRegistered(t *testing.T) {
	saved := frontend
	frontend = nil
	defer func() { frontend = saved }()

	if _, err := frontendProgram("whatever.seq"); err == nil {
		t.Fatal("expected an error when no frontend is registered")
	}
}

func TestFrontendProgram_DelegatesToRegisteredFrontend(t *testing.T) {
	saved := frontend
	defer func() { frontend = saved }()

	dir := t.TempDir()
	path := filepath.Join(dir, "prog.seq")
	if err := os.WriteFile(path, []byte("word main : ( -- ) is end"), 0o644); err != nil {
		t.Fatal(err)
	}

	want := &ast.Program{}
	var gotPath string
	RegisterFrontend(func(p string) (*ast.Program, error) {
		gotPath = p
		return want, nil
	})

	got, err := frontendProgram(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("frontendProgram returned a different *ast.Program than the registered frontend")
	}
	if gotPath != path {
		t.Fatalf("frontend called with path %q, want %q", gotPath, path)
	}
}
