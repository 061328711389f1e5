// Package config holds build-time constants and the runtime's environment
// variable surface (spec §6 "Configuration"). All tuning is read once at
// strand-scheduler startup; there is no live-reload.
package config

import (
	"os"
	"strconv"
)

// Version is the current seqc version, set at build time via -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".seq"

// HasSourceExt returns true if path ends with the recognized source extension.
func HasSourceExt(path string) bool {
	return len(path) >= len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}

// Default tuning values, overridden by the SEQ_* environment variables below.
const (
	DefaultStackSize       = 64 * 1024 // bytes per strand stack
	DefaultPoolCapacity    = 4096      // strands per scheduler pool before growth
	DefaultWatchdogSecs    = 0         // 0 disables the watchdog
	DefaultWatchdogInterval = 1
)

// WatchdogAction names the behavior taken when the watchdog fires.
type WatchdogAction string

const (
	WatchdogDump WatchdogAction = "dump"
	WatchdogKill WatchdogAction = "kill"
)

// StackSize returns SEQ_STACK_SIZE in bytes, or DefaultStackSize if unset or
// unparsable.
func StackSize() int {
	return envInt("SEQ_STACK_SIZE", DefaultStackSize)
}

// PoolCapacity returns SEQ_POOL_CAPACITY, the number of strand slots the
// scheduler preallocates before growing (spec §4.3 "M:N scheduling").
func PoolCapacity() int {
	return envInt("SEQ_POOL_CAPACITY", DefaultPoolCapacity)
}

// WatchdogSecs returns SEQ_WATCHDOG_SECS; 0 means the watchdog is disabled.
func WatchdogSecs() int {
	return envInt("SEQ_WATCHDOG_SECS", DefaultWatchdogSecs)
}

// WatchdogInterval returns SEQ_WATCHDOG_INTERVAL in seconds between polls.
func WatchdogInterval() int {
	return envInt("SEQ_WATCHDOG_INTERVAL", DefaultWatchdogInterval)
}

// Watchdog returns SEQ_WATCHDOG_ACTION, defaulting to dumping a strand
// backtrace rather than killing the process.
func Watchdog() WatchdogAction {
	switch os.Getenv("SEQ_WATCHDOG_ACTION") {
	case "kill":
		return WatchdogKill
	default:
		return WatchdogDump
	}
}

// ReportWords reports whether SEQ_REPORT=words was set, enabling the
// per-word call-count report supplement.
func ReportWords() bool {
	return os.Getenv("SEQ_REPORT") == "words"
}

// LeakCheck reports whether SEQ_LEAK_CHECK=1 was set, enabling the heap's
// allocation-site tracking supplement.
func LeakCheck() bool {
	return os.Getenv("SEQ_LEAK_CHECK") == "1"
}

// Stdlib returns SEQ_STDLIB, a colon-separated search path of directories
// containing .seq sources for `import`, or "" if unset.
func Stdlib() string {
	return os.Getenv("SEQ_STDLIB")
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
