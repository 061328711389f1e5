// Stack-shuffle primitives (spec §4.8 "Inline primitives") are emitted as
// direct IR by the code generator rather than FFI calls; the Go
// implementations here back the checker/codegen test suite's interpreter
// mode, which runs a word's body without a full LLVM toolchain.
package prims

import (
	"github.com/seqlang/seq/internal/runtime/heap"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// dupValue increments a heap-backed value's refcount before pushing a
// second copy of it (spec §4.1 "dup increments the count atomically").
// Plain scalar kinds are copied by value and need no bookkeeping.
func dupValue(v stack.Value) stack.Value {
	if v.IsHeap() {
		heap.HeaderAt(v.Ptr).Dup()
	}
	return v
}

// releaseValue drops a heap-backed value's reference (spec §4.1 "drop
// decrements and, on reaching zero, recursively drops inner Values").
func releaseValue(v stack.Value) {
	if v.IsHeap() {
		heap.HeaderAt(v.Ptr).Drop()
	}
}

func init() {
	register("seq_dup", func(p *Proc) { p.Stack.Push(dupValue(p.Stack.Peek(0))) })
	register("seq_drop", func(p *Proc) { releaseValue(p.Stack.Pop()) })
	register("seq_swap", func(p *Proc) { p.Stack.Swap() })
	register("seq_over", func(p *Proc) { p.Stack.Push(dupValue(p.Stack.Peek(1))) })
	register("seq_rot", func(p *Proc) { p.Stack.Rot() })
	register("seq_nip", func(p *Proc) {
		top := p.Stack.Pop()
		releaseValue(p.Stack.Pop())
		p.Stack.Push(top)
	})
	register("seq_tuck", func(p *Proc) { p.Stack.Tuck() })
	register("seq_pick", func(p *Proc) {
		n := int(p.Stack.Pop().AsInt())
		p.Stack.Push(dupValue(p.Stack.Peek(n)))
	})
	register("seq_roll", func(p *Proc) {
		n := int(p.Stack.Pop().AsInt())
		p.Stack.Roll(n)
	})
}
