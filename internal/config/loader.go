package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Project is the optional seq.yaml project file (SPEC_FULL.md DOMAIN STACK:
// "the seqc FFI search-path and watchdog defaults loader"), grounded on
// ext/config.go's Config/Dep tagged-struct-plus-loader shape. Unlike the
// teacher's funxy.yaml, a seq.yaml has no Go-binding generation to describe —
// it only carries the project-wide defaults command-line flags can still
// override, the same relationship env vars have to the constants above.
type Project struct {
	// Module names the project, echoed into diagnostics; purely descriptive.
	Module string `yaml:"module,omitempty"`

	// FFIManifests lists TOML manifest paths (relative to seq.yaml) seqc
	// registers before type-checking, so a project doesn't need to repeat
	// --ffi-manifest on every invocation.
	FFIManifests []string `yaml:"ffi_manifests,omitempty"`

	// Stdlib is a search path of directories holding .seq sources for
	// `import`, the project-file form of the SEQ_STDLIB environment variable.
	Stdlib []string `yaml:"stdlib,omitempty"`

	Watchdog WatchdogConfig `yaml:"watchdog,omitempty"`
}

// WatchdogConfig mirrors the SEQ_WATCHDOG_* environment variables (spec §4.3
// "watchdog over SIGQUIT"); a project file sets the defaults, the
// environment variables still win when set (see the Project.Effective*
// accessors).
type WatchdogConfig struct {
	Secs     int            `yaml:"secs,omitempty"`
	Interval int            `yaml:"interval,omitempty"`
	Action   WatchdogAction `yaml:"action,omitempty"`
}

// LoadProject reads and parses a seq.yaml file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &p, nil
}

// FindProject searches for seq.yaml starting from dir and walking up to
// parent directories, the same upward search ext/config.go's FindConfig does
// for funxy.yaml. Returns "" with a nil error if no project file is found.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"seq.yaml", "seq.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ResolveFFIManifests returns p.FFIManifests resolved relative to the
// directory containing the seq.yaml that produced p. A nil p yields nil.
func (p *Project) ResolveFFIManifests(configPath string) []string {
	if p == nil {
		return nil
	}
	dir := filepath.Dir(configPath)
	out := make([]string, len(p.FFIManifests))
	for i, m := range p.FFIManifests {
		if filepath.IsAbs(m) {
			out[i] = m
		} else {
			out[i] = filepath.Join(dir, m)
		}
	}
	return out
}

// EffectiveWatchdogSecs returns the project's watchdog.secs default unless
// SEQ_WATCHDOG_SECS is set in the environment, which always wins — the same
// precedence StackSize/PoolCapacity give env vars over any other source.
func (p *Project) EffectiveWatchdogSecs() int {
	if v := os.Getenv("SEQ_WATCHDOG_SECS"); v != "" {
		return WatchdogSecs()
	}
	if p != nil && p.Watchdog.Secs != 0 {
		return p.Watchdog.Secs
	}
	return DefaultWatchdogSecs
}

// EffectiveWatchdogInterval mirrors EffectiveWatchdogSecs for the poll
// interval.
func (p *Project) EffectiveWatchdogInterval() int {
	if v := os.Getenv("SEQ_WATCHDOG_INTERVAL"); v != "" {
		return WatchdogInterval()
	}
	if p != nil && p.Watchdog.Interval != 0 {
		return p.Watchdog.Interval
	}
	return DefaultWatchdogInterval
}

// EffectiveWatchdogAction mirrors EffectiveWatchdogSecs for the fire action.
func (p *Project) EffectiveWatchdogAction() WatchdogAction {
	if v := os.Getenv("SEQ_WATCHDOG_ACTION"); v != "" {
		return Watchdog()
	}
	if p != nil && p.Watchdog.Action != "" {
		return p.Watchdog.Action
	}
	return WatchdogDump
}
