package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProject_FFIManifestsAndWatchdog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seq.yaml")
	content := `
module: demo
ffi_manifests:
  - manifests/sqlite.toml
stdlib:
  - ./vendor/seqlib
watchdog:
  secs: 30
  interval: 2
  action: kill
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing seq.yaml: %v", err)
	}

	proj, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if proj.Module != "demo" {
		t.Errorf("Module = %q, want demo", proj.Module)
	}
	if len(proj.FFIManifests) != 1 || proj.FFIManifests[0] != "manifests/sqlite.toml" {
		t.Fatalf("FFIManifests = %v", proj.FFIManifests)
	}
	if proj.Watchdog.Secs != 30 || proj.Watchdog.Interval != 2 || proj.Watchdog.Action != WatchdogKill {
		t.Errorf("Watchdog = %+v", proj.Watchdog)
	}

	resolved := proj.ResolveFFIManifests(path)
	want := filepath.Join(dir, "manifests/sqlite.toml")
	if len(resolved) != 1 || resolved[0] != want {
		t.Errorf("ResolveFFIManifests = %v, want [%s]", resolved, want)
	}

	if got := proj.EffectiveWatchdogSecs(); got != 30 {
		t.Errorf("EffectiveWatchdogSecs = %d, want 30", got)
	}
	if got := proj.EffectiveWatchdogAction(); got != WatchdogKill {
		t.Errorf("EffectiveWatchdogAction = %q, want kill", got)
	}
}

func TestLoadProject_MissingFile(t *testing.T) {
	if _, err := LoadProject(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error loading a nonexistent seq.yaml")
	}
}

func TestFindProject_WalksUpToParent(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "seq.yaml"), []byte("module: demo\n"), 0o644); err != nil {
		t.Fatalf("writing seq.yaml: %v", err)
	}
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("creating nested dir: %v", err)
	}

	found, err := FindProject(nested)
	if err != nil {
		t.Fatalf("FindProject: %v", err)
	}
	want := filepath.Join(root, "seq.yaml")
	if found != want {
		t.Errorf("FindProject = %q, want %q", found, want)
	}
}

func TestFindProject_NoneFound(t *testing.T) {
	found, err := FindProject(t.TempDir())
	if err != nil {
		t.Fatalf("FindProject: %v", err)
	}
	if found != "" {
		t.Errorf("FindProject = %q, want empty", found)
	}
}

func TestEffectiveWatchdog_DefaultsWhenNoProject(t *testing.T) {
	var proj *Project
	if got := proj.EffectiveWatchdogSecs(); got != DefaultWatchdogSecs {
		t.Errorf("EffectiveWatchdogSecs = %d, want %d", got, DefaultWatchdogSecs)
	}
	if got := proj.EffectiveWatchdogAction(); got != WatchdogDump {
		t.Errorf("EffectiveWatchdogAction = %q, want dump", got)
	}
}
