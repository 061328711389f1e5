// Package prims implements the ~150-entry FFI-callable primitive catalog
// (spec §4.4 "Primitive Operations"), grouped into the categories spec §4.4
// lists. Each primitive is a Go function with the fixed C-linkable calling
// shape the code generator's FFI call sites target: it receives the shared
// Proc (stack, arena, strand id) and pops/pushes Values in place, exactly
// the way the teacher's `evaluator/builtins_*.go` files register one Go
// function per native call rather than interpreting an AST node.
package prims

import (
	"github.com/seqlang/seq/internal/runtime/arena"
	"github.com/seqlang/seq/internal/runtime/scheduler"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// Proc bundles everything a primitive needs: the strand's own stack and
// arena, plus a handle back to the scheduler for the handful of primitives
// that suspend (chan.*, yield, strand.resume, time.sleep-ms).
type Proc struct {
	Stack     *stack.Stack
	Arena     *arena.Arena
	Scheduler *scheduler.Scheduler
	StrandID  int64
}

// Func is the shape every registered primitive implements.
type Func func(p *Proc)

// Table is the flat name -> implementation catalog (spec §4.4: "a flat
// catalog of about 150 FFI-callable functions ... fixed name (C-linkable)"),
// keyed by the same symbols codegen's ffiSymbol produces.
var Table = map[string]Func{}

func register(name string, fn Func) {
	if _, dup := Table[name]; dup {
		panic("prims: duplicate registration for " + name)
	}
	Table[name] = fn
}
