package ffi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seqlang/seq/internal/symbols"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoad_ValidManifest(t *testing.T) {
	path := writeManifest(t, `
link = "sqlite3"

[[functions]]
c_name = "sqlite3_open"
seq_name = "sqlite.open"
stack_effect = "( String -- Int )"

[[functions.args]]
type = "String"
pass = "c_string"

[functions.return]
type = "Int"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Link != "sqlite3" {
		t.Errorf("link = %q, want sqlite3", m.Link)
	}
	if len(m.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(m.Functions))
	}
	f := m.Functions[0]
	if f.CName != "sqlite3_open" || f.SeqName != "sqlite.open" {
		t.Errorf("c_name/seq_name = %q/%q", f.CName, f.SeqName)
	}
	if len(f.Args) != 1 || f.Args[0].Pass != "c_string" {
		t.Errorf("args = %+v", f.Args)
	}
	if f.Return.Type != "Int" {
		t.Errorf("return.type = %q, want Int", f.Return.Type)
	}
}

func TestLoad_RejectsUnsafeLinkName(t *testing.T) {
	path := writeManifest(t, `
link = "sqlite3; rm -rf /"

[[functions]]
c_name = "f"
seq_name = "f"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unsafe link name, got nil")
	}
}

func TestLoad_RejectsUnknownPassMode(t *testing.T) {
	path := writeManifest(t, `
[[functions]]
c_name = "f"
seq_name = "f"

[[functions.args]]
type = "Int"
pass = "by_pigeon"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown pass mode, got nil")
	}
}

func TestLoad_RejectsDuplicateSeqName(t *testing.T) {
	path := writeManifest(t, `
[[functions]]
c_name = "f1"
seq_name = "dup.name"

[[functions]]
c_name = "f2"
seq_name = "dup.name"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a duplicate seq_name, got nil")
	}
}

func TestManifest_Register(t *testing.T) {
	path := writeManifest(t, `
[[functions]]
c_name = "sqlite3_open"
seq_name = "sqlite.open"

[[functions.args]]
type = "String"
pass = "c_string"

[functions.return]
type = "Int"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table := symbols.NewTable()
	if err := m.Register(table); err != nil {
		t.Fatalf("Register: %v", err)
	}

	sig, ok := table.LookupWord("sqlite.open")
	if !ok {
		t.Fatal("expected sqlite.open to be registered")
	}
	if len(sig.RowVars) != 1 {
		t.Errorf("expected one shared row var, got %d", len(sig.RowVars))
	}
}
